package domain

// PayloadField is one (name, value) pair of a chat payload.
type PayloadField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// Payload is the structured message handed to the chat gateway.
type Payload struct {
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Color       string         `json:"color,omitempty"`
	Fields      []PayloadField `json:"fields"`
	Thumbnail   string         `json:"thumbnail,omitempty"`
	Footer      string         `json:"footer,omitempty"`
	IsError     bool           `json:"is_error,omitempty"`
}

// AddField appends a field.
func (p *Payload) AddField(name, value string) {
	p.Fields = append(p.Fields, PayloadField{Name: name, Value: value})
}

const defaultClassColor = "#FFFFF1"

var classColors = map[string]string{
	"Death_Knight": "#C41E3A",
	"Demon_Hunter": "#A330C9",
	"Druid":        "#FF7C0A",
	"Evoker":       "#33937F",
	"Hunter":       "#AAD372",
	"Mage":         "#3FC7EB",
	"Monk":         "#00FF98",
	"Paladin":      "#F48CBA",
	"Priest":       "#FFFFFF",
	"Rogue":        "#FFF468",
	"Shaman":       "#0070DD",
	"Warlock":      "#8788EE",
	"Warrior":      "#C69B6D",
}

// ClassColor returns the class color in #RRGGBB form.
func ClassColor(class string) string {
	if color, ok := classColors[class]; ok {
		return color
	}
	return defaultClassColor
}
