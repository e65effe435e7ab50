package loan

import (
	"regexp"
	"strings"
	"testing"
	"time"
)

var codeShape = regexp.MustCompile(`^[A-Z]{3}-\d{4}-[A-Z0-9]{4}$`)

func TestGenerateProductCodeShape(t *testing.T) {
	now := time.UnixMilli(1734300004829)
	code := GenerateProductCode("Livro", now)
	if !codeShape.MatchString(code) {
		t.Fatalf("unexpected code shape: %s", code)
	}
	if !strings.HasPrefix(code, "LIV-4829-") {
		t.Fatalf("expected LIV-4829- prefix, got %s", code)
	}
}

func TestGenerateProductCodeDefaultPrefix(t *testing.T) {
	code := GenerateProductCode("  ", time.UnixMilli(1734300000123))
	if !strings.HasPrefix(code, "ITE-0123-") {
		t.Fatalf("expected ITE-0123- prefix, got %s", code)
	}
}

func TestGenerateProductCodeShortType(t *testing.T) {
	code := GenerateProductCode("cd", time.UnixMilli(1734300001111))
	if !strings.HasPrefix(code, "CD-1111-") {
		t.Fatalf("expected CD-1111- prefix, got %s", code)
	}
}

func TestGenerateProductCodeVaries(t *testing.T) {
	now := time.UnixMilli(1734300004829)
	seen := map[string]struct{}{}
	for i := 0; i < 20; i++ {
		seen[GenerateProductCode("Jogo", now)] = struct{}{}
	}
	if len(seen) < 2 {
		t.Fatalf("expected random suffix to vary, got %v", seen)
	}
}
