package engine

import (
	"fmt"
	"strconv"
)

// BoolUciOption and StringUciOption round out IntUciOption (engine.go) for
// the option table spec.md §6 lists; both boolean and string options are
// "recognised" even where their effect is inert (OwnBook, SyzygyPath).
type BoolUciOption struct {
	Name string
	Val  bool
}

type StringUciOption struct {
	Name string
	Val  string
}

// Options bundles every UCI option this engine recognises, separate from
// the Engine fields already wired into search (Hash/Threads/PawnHash sit
// on Engine directly since NewGame reads them).
type Options struct {
	OwnBook          BoolUciOption
	MultiPV          IntUciOption
	SyzygyPath       StringUciOption
	SyzygyProbeDepth IntUciOption
}

func defaultOptions() Options {
	return Options{
		OwnBook:          BoolUciOption{"OwnBook", true},
		MultiPV:          IntUciOption{"MultiPV", 1, 256, 1},
		SyzygyPath:       StringUciOption{"SyzygyPath", ""},
		SyzygyProbeDepth: IntUciOption{"SyzygyProbeDepth", 0, 64, 1},
	}
}

// SetOption applies a UCI "setoption name <name> value <value>" command.
// Unknown option names and out-of-range values are protocol errors
// (spec.md §7): the caller logs and drops them, engine state is
// untouched either way since we validate before mutating.
func (e *Engine) SetOption(name, value string) error {
	switch name {
	case "Hash":
		n, err := strconv.Atoi(value)
		if err != nil || n < e.Hash.Min || n > e.Hash.Max {
			return fmt.Errorf("uci: bad value %q for option Hash", value)
		}
		e.Hash.Val = n
	case "Threads":
		n, err := strconv.Atoi(value)
		if err != nil || n < e.Threads.Min || n > e.Threads.Max {
			return fmt.Errorf("uci: bad value %q for option Threads", value)
		}
		e.Threads.Val = n
	case "PawnHash":
		n, err := strconv.Atoi(value)
		if err != nil || n < e.PawnHash.Min || n > e.PawnHash.Max {
			return fmt.Errorf("uci: bad value %q for option PawnHash", value)
		}
		e.PawnHash.Val = n
	case "Move Overhead":
		n, err := strconv.Atoi(value)
		if err != nil || n < e.MoveOverhead.Min || n > e.MoveOverhead.Max {
			return fmt.Errorf("uci: bad value %q for option Move Overhead", value)
		}
		e.MoveOverhead.Val = n
	case "OwnBook":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("uci: bad value %q for option OwnBook", value)
		}
		e.Options.OwnBook.Val = b
	case "MultiPV":
		n, err := strconv.Atoi(value)
		if err != nil || n < e.Options.MultiPV.Min || n > e.Options.MultiPV.Max {
			return fmt.Errorf("uci: bad value %q for option MultiPV", value)
		}
		e.Options.MultiPV.Val = n
	case "SyzygyPath":
		e.Options.SyzygyPath.Val = value
	case "SyzygyProbeDepth":
		n, err := strconv.Atoi(value)
		if err != nil || n < e.Options.SyzygyProbeDepth.Min || n > e.Options.SyzygyProbeDepth.Max {
			return fmt.Errorf("uci: bad value %q for option SyzygyProbeDepth", value)
		}
		e.Options.SyzygyProbeDepth.Val = n
	case "ClearHash":
		if e.TransTable != nil {
			e.TransTable.Clear()
		}
	default:
		return fmt.Errorf("uci: unknown option %q", name)
	}
	return nil
}
