// Package uci is the text-protocol front end spec.md §6 describes: it
// parses UCI commands from stdin and renders info/bestmove lines to
// stdout, talking to engine.Engine through its exported Search, NewGame
// and SetOption methods plus its GetInfo/GetOptions/HashFull accessors
// and Options fields. Modeled on the line-driven, channel-based UCI
// driver pattern used by other engines in the
// reference corpus, adapted to drive a single engine.Engine value
// rather than fan commands out over channels.
package uci

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/op/go-logging"

	"github.com/mhib/lazybeak/backend"
	"github.com/mhib/lazybeak/engine"
)

var log = logging.MustGetLogger("uci")

// Driver owns one engine.Engine instance and the position/search state a
// UCI session accumulates between "position" and "go" commands.
type Driver struct {
	eng       *engine.Engine
	out       *bufio.Writer
	positions []backend.Position
	cancel    context.CancelFunc
	searching chan struct{}
	goStart   time.Time
}

// NewDriver wires a fresh engine.Engine's Update callback to this
// driver's info-line renderer and returns a Driver ready to Run.
func NewDriver(out io.Writer) *Driver {
	e := engine.NewEngine()
	d := &Driver{eng: &e, out: bufio.NewWriter(out)}
	d.eng.Update = d.onUpdate
	d.eng.NewGame()
	return d
}

// Run reads UCI commands from in until "quit" or EOF, blocking the
// caller. Each line is handled synchronously except "go", which runs the
// search on its own goroutine so "stop" and "isready" keep being served.
func (d *Driver) Run(in io.Reader) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 1<<16), 1<<20)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if d.dispatch(line) {
			return
		}
	}
}

func (d *Driver) dispatch(line string) (quit bool) {
	fields := strings.Fields(line)
	switch fields[0] {
	case "uci":
		d.cmdUci()
	case "isready":
		d.waitSearch()
		d.writeln("readyok")
	case "ucinewgame":
		d.waitSearch()
		d.eng.NewGame()
		d.positions = nil
	case "position":
		d.waitSearch()
		d.cmdPosition(fields[1:])
	case "setoption":
		d.cmdSetOption(fields[1:])
	case "go":
		d.cmdGo(fields[1:])
	case "stop":
		if d.cancel != nil {
			d.cancel()
		}
		d.waitSearch()
	case "quit":
		if d.cancel != nil {
			d.cancel()
		}
		d.waitSearch()
		return true
	default:
		log.Warningf("unknown command %q", fields[0])
		d.writeln(fmt.Sprintf("info string unknown command %s", fields[0]))
	}
	return false
}

func (d *Driver) waitSearch() {
	if d.searching != nil {
		<-d.searching
	}
}

func (d *Driver) writeln(s string) {
	fmt.Fprintln(d.out, s)
	d.out.Flush()
}

func (d *Driver) cmdUci() {
	name, version, author := d.eng.GetInfo()
	d.writeln(fmt.Sprintf("id name %s %s", name, version))
	d.writeln(fmt.Sprintf("id author %s", author))
	for _, opt := range d.eng.GetOptions() {
		d.writeln(fmt.Sprintf("option name %s type spin default %d min %d max %d", opt.Name, opt.Val, opt.Min, opt.Max))
	}
	d.writeln(fmt.Sprintf("option name %s type check default %v", d.eng.Options.OwnBook.Name, d.eng.Options.OwnBook.Val))
	d.writeln(fmt.Sprintf("option name %s type spin default %d min %d max %d",
		d.eng.Options.MultiPV.Name, d.eng.Options.MultiPV.Val, d.eng.Options.MultiPV.Min, d.eng.Options.MultiPV.Max))
	d.writeln(fmt.Sprintf("option name %s type string default %s", d.eng.Options.SyzygyPath.Name, d.eng.Options.SyzygyPath.Val))
	d.writeln(fmt.Sprintf("option name %s type spin default %d min %d max %d",
		d.eng.Options.SyzygyProbeDepth.Name, d.eng.Options.SyzygyProbeDepth.Val, d.eng.Options.SyzygyProbeDepth.Min, d.eng.Options.SyzygyProbeDepth.Max))
	d.writeln("option name ClearHash type button")
	d.writeln("uciok")
}

// cmdSetOption handles "setoption name <N...> value <V...>"; the option
// name may itself contain spaces ("Move Overhead"), so both halves are
// reassembled from the raw token stream rather than split positionally.
func (d *Driver) cmdSetOption(fields []string) {
	nameTokens, valueTokens := splitNameValue(fields)
	name := strings.Join(nameTokens, " ")
	value := strings.Join(valueTokens, " ")
	if err := d.eng.SetOption(name, value); err != nil {
		log.Warningf("%v", err)
		d.writeln(fmt.Sprintf("info string %v", err))
	}
}

func splitNameValue(fields []string) (name, value []string) {
	i := 0
	if i < len(fields) && fields[i] == "name" {
		i++
	}
	for i < len(fields) && fields[i] != "value" {
		name = append(name, fields[i])
		i++
	}
	if i < len(fields) && fields[i] == "value" {
		i++
	}
	for i < len(fields) {
		value = append(value, fields[i])
		i++
	}
	return
}

// cmdPosition handles "position [startpos|fen <fen>] [moves <m>...]",
// rebuilding the full position history the engine needs for repetition
// detection (spec.md §4.5 "Look for repetition in already played
// positions").
func (d *Driver) cmdPosition(fields []string) {
	if len(fields) == 0 {
		return
	}
	var pos backend.Position
	idx := 0
	switch fields[0] {
	case "startpos":
		pos = backend.InitialPosition
		idx = 1
	case "fen":
		fenFields := []string{}
		idx = 1
		for idx < len(fields) && fields[idx] != "moves" {
			fenFields = append(fenFields, fields[idx])
			idx++
		}
		parsed, err := backend.ParseFEN(strings.Join(fenFields, " "))
		if err != nil {
			log.Warningf("%v", err)
			d.writeln(fmt.Sprintf("info string %v", err))
			return
		}
		pos = parsed
	default:
		log.Warningf("malformed position command")
		d.writeln("info string malformed position command")
		return
	}

	positions := []backend.Position{pos}
	if idx < len(fields) && fields[idx] == "moves" {
		for _, lan := range fields[idx+1:] {
			next, ok := positions[len(positions)-1].MakeMoveLAN(lan)
			if !ok {
				log.Warningf("illegal move %q", lan)
				d.writeln(fmt.Sprintf("info string illegal move %s", lan))
				break
			}
			positions = append(positions, next)
		}
	}
	d.positions = positions
}

// cmdGo handles "go [wtime X] [btime X] [winc X] [binc X] [movestogo X]
// [movetime X] [depth X] [nodes X] [infinite]", launching the search on
// its own goroutine so stop/isready keep being served (spec.md §6).
func (d *Driver) cmdGo(fields []string) {
	if len(d.positions) == 0 {
		d.positions = []backend.Position{backend.InitialPosition}
	}
	limits := engine.LimitsType{}
	for i := 0; i < len(fields); i++ {
		switch fields[i] {
		case "wtime":
			i++
			limits.WhiteTime = atoiField(fields, i)
		case "btime":
			i++
			limits.BlackTime = atoiField(fields, i)
		case "winc":
			i++
			limits.WhiteIncrement = atoiField(fields, i)
		case "binc":
			i++
			limits.BlackIncrement = atoiField(fields, i)
		case "movestogo":
			i++
			limits.MovesToGo = atoiField(fields, i)
		case "movetime":
			i++
			limits.MoveTime = atoiField(fields, i)
		case "depth":
			i++
			limits.Depth = atoiField(fields, i)
		case "nodes":
			i++
			limits.Nodes = atoiField(fields, i)
		case "infinite":
			limits.Infinite = true
		case "ponder":
			limits.Ponder = true
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.goStart = time.Now()
	done := make(chan struct{})
	d.searching = done

	positions := make([]backend.Position, len(d.positions))
	copy(positions, d.positions)

	go func() {
		defer close(done)
		best := d.eng.Search(ctx, engine.SearchParams{Positions: positions, Limits: limits})
		d.writeln(fmt.Sprintf("bestmove %s", best))
	}()
}

func atoiField(fields []string, i int) int {
	if i >= len(fields) {
		return 0
	}
	n, _ := strconv.Atoi(fields[i])
	return n
}

// onUpdate renders one "info" line per completed depth (spec.md §6):
// "info score {cp N | mate N} depth D seldepth S nodes K nps K hashfull P time MS pv m1 m2 …".
func (d *Driver) onUpdate(info engine.SearchInfo) {
	elapsed := time.Since(d.goStart)
	ms := elapsed.Milliseconds()
	nps := int64(0)
	if ms > 0 {
		nps = int64(info.Nodes) * 1000 / ms
	}

	var scoreStr string
	if info.Score.Mate != 0 {
		scoreStr = fmt.Sprintf("mate %d", info.Score.Mate)
	} else {
		scoreStr = fmt.Sprintf("cp %d", info.Score.Centipawn)
	}

	pv := make([]string, len(info.Moves))
	for i, m := range info.Moves {
		pv[i] = m.String()
	}

	d.writeln(fmt.Sprintf("info score %s depth %d seldepth %d nodes %d nps %d hashfull %d time %d pv %s",
		scoreStr, info.Depth, info.SelDepth, info.Nodes, nps, d.eng.HashFull(), ms, strings.Join(pv, " ")))
}
