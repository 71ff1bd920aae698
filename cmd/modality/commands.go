package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dshills/modality/internal/config"
	"github.com/dshills/modality/internal/input"
	"github.com/dshills/modality/internal/input/complete"
	"github.com/dshills/modality/internal/input/key"
	"github.com/dshills/modality/internal/input/register"
)

// defaultMacroRegister is used when no register was chosen with ".
const defaultMacroRegister = '@'

var promptCommands = []string{"echo", "quit", "set", "write"}

// commandTable builds the normal-mode bindings.
func (e *editor) commandTable() input.CommandMap {
	cmds := input.CommandMap{}

	// Movement.
	bindMove := func(k key.Key, dx, dy int) {
		cmds[k] = func(c *input.Context, p input.NormalParams) {
			n := p.Count
			if n < 1 {
				n = 1
			}
			for ; n > 0; n-- {
				if dx != 0 {
					e.moveX(dx)
				}
				if dy != 0 {
					e.moveY(dy)
				}
			}
		}
	}
	bindMove(key.Rune('h'), -1, 0)
	bindMove(key.Rune('l'), 1, 0)
	bindMove(key.Rune('k'), 0, -1)
	bindMove(key.Rune('j'), 0, 1)
	bindMove(key.CodeLeft.Key(), -1, 0)
	bindMove(key.CodeRight.Key(), 1, 0)
	bindMove(key.CodeUp.Key(), 0, -1)
	bindMove(key.CodeDown.Key(), 0, 1)

	// Insertions.
	bindInsert := func(k key.Key, kind input.InsertKind) {
		cmds[k] = func(c *input.Context, p input.NormalParams) {
			c.Handler().Insert(kind, p.Count)
		}
	}
	bindInsert(key.Rune('i'), input.InsertBefore)
	bindInsert(key.Rune('a'), input.InsertAfter)
	bindInsert(key.Rune('I'), input.InsertLineBegin)
	bindInsert(key.Rune('A'), input.InsertLineEnd)
	bindInsert(key.Rune('o'), input.InsertLineBelow)
	bindInsert(key.Rune('O'), input.InsertLineAbove)
	bindInsert(key.Rune('r'), input.InsertReplace)

	cmds[key.Rune('.')] = func(c *input.Context, p input.NormalParams) {
		c.Handler().RepeatLastInsert()
	}

	cmds[key.Rune('x')] = func(c *input.Context, p input.NormalParams) {
		if e.curX < len(e.line()) {
			e.lines[e.curY] = append(e.line()[:e.curX], e.line()[e.curX+1:]...)
			e.clampX()
		}
	}

	// Register selection for the next command.
	cmds[key.Rune('"')] = func(c *input.Context, p input.NormalParams) {
		input.OnNextKeyWithAutoInfo(c, "register", func(k key.Key, c *input.Context) {
			if k.IsRune() && register.IsValid(k.Rune) {
				c.Handler().SetPendingRegister(k.Rune)
			}
		}, "register", "next key names the register")
	}

	// Macro recording and replay.
	cmds[key.Rune('q')] = e.recordCommand
	cmds[key.Rune('@')] = func(c *input.Context, p input.NormalParams) {
		reg := p.Register
		if reg == register.Null {
			reg = defaultMacroRegister
		}
		if err := c.Handler().ReplayMacro(reg, p.Count); err != nil {
			c.Error(err)
		}
	}

	// Goto chords with delayed help.
	cmds[key.Rune('g')] = func(c *input.Context, p input.NormalParams) {
		input.OnNextKeyWithAutoInfo(c, "goto", e.gotoKey,
			"goto", "g: buffer top\ne: buffer end\nh: line start\nl: line end")
	}

	// Prompts.
	cmds[key.Rune(':')] = e.commandPrompt
	cmds[key.Rune('/')] = e.searchPrompt

	cmds[key.CodeEscape.Key()] = func(c *input.Context, p input.NormalParams) {
		e.HideInfo()
		e.setStatus("", input.FaceDefault)
	}

	return cmds
}

func (e *editor) recordCommand(c *input.Context, p input.NormalParams) {
	h := c.Handler()
	if h.IsRecording() {
		h.DropLastRecordedKey()
		reg := h.RecordingRegister()
		if err := h.StopRecording(); err != nil {
			c.Error(err)
			return
		}
		e.setStatus(fmt.Sprintf("recorded to %c", reg), input.FaceDefault)
		return
	}
	reg := p.Register
	if reg == register.Null {
		reg = defaultMacroRegister
	}
	if err := h.StartRecording(reg); err != nil {
		c.Error(err)
	}
}

func (e *editor) gotoKey(k key.Key, c *input.Context) {
	switch k {
	case key.Rune('g'):
		e.curY, e.curX = 0, 0
	case key.Rune('e'):
		e.curY = len(e.lines) - 1
		e.curX = len(e.line())
	case key.Rune('h'):
		e.curX = 0
	case key.Rune('l'):
		e.curX = len(e.line())
	}
}

func (e *editor) commandPrompt(c *input.Context, p input.NormalParams) {
	completer := func(c *input.Context, text string, cursor int) complete.Completions {
		return complete.Prefix(promptCommands, text, cursor)
	}
	c.Handler().Prompt(":", "", "quit", input.FacePrompt,
		input.PromptDropBlankPrefix, ':', completer,
		func(line string, ev input.PromptEvent, c *input.Context) error {
			if ev != input.PromptValidate {
				return nil
			}
			return e.runCommand(c, line)
		})
}

func (e *editor) searchPrompt(c *input.Context, p input.NormalParams) {
	c.Handler().Prompt("/", "", "", input.FacePrompt,
		input.PromptSearch, '/', nil,
		func(line string, ev input.PromptEvent, c *input.Context) error {
			switch ev {
			case input.PromptChange:
				// Recolor the prompt while typing so a failing
				// pattern is visible before validation.
				face := input.FacePrompt
				if line != "" && !strings.Contains(e.text(), line) {
					face = input.FaceError
				}
				c.Handler().SetPromptFace(face)
			case input.PromptValidate:
				if line != "" && !e.search(line) {
					return fmt.Errorf("pattern not found: %s", line)
				}
			case input.PromptAbort:
				e.setStatus("", input.FaceDefault)
			}
			return nil
		})
}

// runCommand executes a ":" command line.
func (e *editor) runCommand(c *input.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	switch cmd, args := fields[0], fields[1:]; cmd {
	case "quit", "q":
		e.quit = true
	case "echo":
		e.setStatus(strings.Join(args, " "), input.FaceDefault)
	case "write", "w":
		if len(args) != 1 {
			return fmt.Errorf("write: expected a file name")
		}
		if err := os.WriteFile(args[0], []byte(e.text()+"\n"), 0o644); err != nil {
			return fmt.Errorf("write: %w", err)
		}
		e.setStatus(fmt.Sprintf("wrote %s", args[0]), input.FaceDefault)
	case "set":
		if len(args) != 2 {
			return fmt.Errorf("set: expected option and value")
		}
		return e.setOption(c, args[0], args[1])
	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
	return nil
}

func (e *editor) setOption(c *input.Context, name, value string) error {
	s := c.Settings()
	switch name {
	case "autoinfo":
		mask, err := config.ParseAutoInfo(value)
		if err != nil {
			return err
		}
		s.AutoInfo = mask
	case "autocomplete":
		mask, err := config.ParseAutoComplete(value)
		if err != nil {
			return err
		}
		s.AutoComplete = mask
	default:
		return fmt.Errorf("unknown option: %s", name)
	}
	c.SetSettings(s)
	log.Printf("option %s set to %s", name, value)
	return nil
}

// mappedCommands wraps a command table with the key mappings declared
// in the init script: a mapped key expands to its key sequence through
// normal dispatch.
type mappedCommands struct {
	base     input.CommandTable
	mappings map[key.Key][]key.Key
	handler  *input.Handler
}

// Lookup implements input.CommandTable.
func (m *mappedCommands) Lookup(k key.Key) (input.Command, bool) {
	if expansion, ok := m.mappings[k]; ok {
		return func(c *input.Context, p input.NormalParams) {
			for _, ek := range expansion {
				m.handler.HandleKey(ek, true)
			}
		}, true
	}
	return m.base.Lookup(k)
}
