package nickname_test

import (
	"regexp"
	"strings"
	"testing"

	"github.com/rosterhq/roster/internal/nickname"
	"github.com/rosterhq/roster/internal/users"
)

var shapeRe = regexp.MustCompile(`^[a-z]+_[a-z]+_[0-9]{3}$`)

func TestWordlistGenerate_shape(t *testing.T) {
	gen := nickname.NewWordlist()
	for i := 0; i < 50; i++ {
		nick, err := gen.Generate()
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if !shapeRe.MatchString(nick) {
			t.Fatalf("unexpected shape: %q", nick)
		}
		if strings.Count(nick, "_") != 2 {
			t.Fatalf("expected adjective_animal_NNN, got %q", nick)
		}
	}
}

// Generated nicknames skip the format pass at signup, so every possible
// output must satisfy the rules a caller-supplied nickname is held to.
func TestWordlistGenerate_satisfiesNicknameRules(t *testing.T) {
	gen := nickname.NewWordlist()
	for i := 0; i < 200; i++ {
		nick, err := gen.Generate()
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if err := users.ValidateNickname(nick); err != nil {
			t.Fatalf("generated nickname %q fails validation: %v", nick, err)
		}
	}
}
