package domain

type CommandType string

const (
	CommandBIS     CommandType = "bis"
	CommandHelp    CommandType = "help"
	CommandUnknown CommandType = "unknown"
)

func (c CommandType) String() string {
	return string(c)
}

func (c CommandType) IsValid() bool {
	switch c {
	case CommandBIS, CommandHelp, CommandUnknown:
		return true
	default:
		return false
	}
}

// BISQuery is the four optional free-text fields of a gear lookup.
type BISQuery struct {
	Class      string `json:"class"`
	Spec       string `json:"spec"`
	HeroTalent string `json:"hero_talent"`
	Slot       string `json:"slot"`
}
