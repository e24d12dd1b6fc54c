package trace

import (
	"fmt"
	"strings"
)

// Level selects which layers reach the journal.
type Level uint8

const (
	LevelOff     Level = iota
	LevelError         // everything, in memory only; dumped when the command fails
	LevelCommand       // command start and finish
	LevelStage         // + stages and progress
	LevelTool          // + external tools and cache
)

var levelNames = [...]string{"off", "error", "command", "stage", "tool"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return fmt.Sprintf("level(%d)", uint8(l))
}

// ParseLevel converts a flag value. "debug" is accepted for tool.
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "debug" {
		return LevelTool, nil
	}
	for i, name := range levelNames {
		if s == name {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames[:], "|"))
}

// admits reports whether events of layer pass l.
func (l Level) admits(layer Layer) bool {
	switch l {
	case LevelOff:
		return false
	case LevelError:
		return true
	}
	return int(layer) < int(l)
}
