package adapter

import (
	"strings"
	"testing"

	"github.com/kapu/azerite-bot-go/internal/domain"
)

func TestFormatPayload(t *testing.T) {
	f := NewResponseFormatter("!")

	got := f.FormatPayload(domain.Payload{
		Title: "BIS Gear for Death Knight Blood (Deathbringer) - All Slots",
		Fields: []domain.PayloadField{
			{Name: "Head", Value: "[Helm of Testing](https://www.wowhead.com/item=1)"},
			{Name: "**Blood (San'layn)**", Value: "Neck: Amulet"},
		},
		Footer: "Powered by Azerite!\nVisit -> https://azerite.app",
	})

	want := strings.Join([]string{
		"⚔️ BIS Gear for Death Knight Blood (Deathbringer) - All Slots",
		"",
		"Head",
		"Helm of Testing (https://www.wowhead.com/item=1)",
		"",
		"▶ Blood (San'layn)",
		"Neck: Amulet",
		"",
		"Powered by Azerite!",
	}, "\n")
	if got != want {
		t.Fatalf("unexpected text:\n%s\n--- want ---\n%s", got, want)
	}
}

func TestFormatPayloadDescriptionAndError(t *testing.T) {
	f := NewResponseFormatter("!")

	got := f.FormatPayload(domain.Payload{Title: "BIS Gear for Mage - All Slots", Description: "No gear found."})
	if got != "⚔️ BIS Gear for Mage - All Slots\n\nNo gear found." {
		t.Fatalf("unexpected text: %q", got)
	}

	got = f.FormatPayload(domain.Payload{Title: "Invalid Class", Description: "No class matches 'x'.", IsError: true})
	if got != "❌ Invalid Class\nNo class matches 'x'." {
		t.Fatalf("unexpected error text: %q", got)
	}
}

func TestFormatHelpUsesPrefix(t *testing.T) {
	help := NewResponseFormatter("?").FormatHelp()
	if !strings.Contains(help, "?bis [직업]") || !strings.Contains(help, "?help") {
		t.Fatalf("help text does not use the prefix:\n%s", help)
	}
	if strings.Contains(help, "{{") {
		t.Fatal("help template not rendered")
	}
}
