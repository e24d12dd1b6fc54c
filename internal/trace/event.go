package trace

import (
	"fmt"
	"time"
)

// Layer says how deep in a run an event happened. Lower is coarser.
type Layer uint8

const (
	LayerCommand Layer = iota + 1 // glosa run, glosa translate
	LayerStage                    // resolve, translate, compile, invoke
	LayerTool                     // javac, go build, java, plugin.Open, cache
)

var layerNames = [...]string{LayerCommand: "command", LayerStage: "stage", LayerTool: "tool"}

func (l Layer) String() string {
	if int(l) < len(layerNames) && layerNames[l] != "" {
		return layerNames[l]
	}
	return fmt.Sprintf("layer(%d)", uint8(l))
}

func (l Layer) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

// Kind of a journal entry.
type Kind uint8

const (
	KindStart Kind = iota + 1
	KindFinish
	KindNote  // instant event: progress, cache hit
	KindPulse // keep-alive while a step is open
)

var kindNames = [...]string{KindStart: "start", KindFinish: "finish", KindNote: "note", KindPulse: "pulse"}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Attrs names what a step works on. Empty fields are omitted.
type Attrs struct {
	Host  string `json:"host,omitempty"`
	Unit  string `json:"unit,omitempty"`
	Entry string `json:"entry,omitempty"`
}

// Event is one journal entry.
type Event struct {
	At      time.Time     `json:"at"`
	Seq     uint64        `json:"seq"`
	Kind    Kind          `json:"kind"`
	Layer   Layer         `json:"layer"`
	Step    string        `json:"step"`
	ID      uint64        `json:"id,omitempty"`
	Parent  uint64        `json:"parent,omitempty"`
	Attrs                 // host, unit, entry
	Outcome string        `json:"outcome,omitempty"`
	Elapsed time.Duration `json:"elapsed_ns,omitempty"`
}
