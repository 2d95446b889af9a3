package browser

import (
	"strings"
	"testing"
)

func TestTextMatchXPathLowercasesTarget(t *testing.T) {
	xpath := textMatchXPath("Signup / Login")
	if !strings.Contains(xpath, "'signup / login'") {
		t.Fatalf("target should be lowercased in %q", xpath)
	}
	if !strings.Contains(xpath, "translate(") {
		t.Fatalf("match should lowercase element text too: %q", xpath)
	}
}

func TestXPathLiteralWithQuotes(t *testing.T) {
	if got := xpathLiteral("plain"); got != "'plain'" {
		t.Fatalf("unexpected literal: %q", got)
	}
	got := xpathLiteral("it's here")
	if got != `concat('it', "'", 's here')` {
		t.Fatalf("unexpected concat literal: %q", got)
	}
}
