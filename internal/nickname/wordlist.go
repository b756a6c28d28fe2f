package nickname

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

var adjectives = []string{
	"amber", "bold", "brisk", "calm", "clever", "cosmic", "daring",
	"eager", "fleet", "gentle", "keen", "lucid", "mellow", "nimble",
	"quiet", "rapid", "solar", "steady", "swift", "vivid",
}

var animals = []string{
	"badger", "bison", "condor", "crane", "dingo", "falcon", "gecko",
	"heron", "ibex", "jackal", "lemur", "lynx", "marmot", "otter",
	"panda", "puffin", "raven", "tapir", "walrus", "wren",
}

// Wordlist builds nicknames of the form adjective_animal_NNN, for
// example "swift_otter_042". Output always satisfies the nickname
// format rules.
type Wordlist struct{}

func NewWordlist() *Wordlist { return &Wordlist{} }

func (Wordlist) Generate() (string, error) {
	adj, err := pick(adjectives)
	if err != nil {
		return "", fmt.Errorf("generate nickname: %w", err)
	}
	animal, err := pick(animals)
	if err != nil {
		return "", fmt.Errorf("generate nickname: %w", err)
	}
	n, err := rand.Int(rand.Reader, big.NewInt(1000))
	if err != nil {
		return "", fmt.Errorf("generate nickname: %w", err)
	}
	return fmt.Sprintf("%s_%s_%03d", adj, animal, n.Int64()), nil
}

func pick(words []string) (string, error) {
	i, err := rand.Int(rand.Reader, big.NewInt(int64(len(words))))
	if err != nil {
		return "", err
	}
	return words[i.Int64()], nil
}
