// Command modality is a small modal editor demonstrating the input
// engine: mode stack, macros, prompts with history and completion,
// and idle-help overlays.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/dshills/modality/internal/config"
	"github.com/dshills/modality/internal/input"
	"github.com/dshills/modality/internal/input/register"
	"github.com/dshills/modality/internal/script"
	"github.com/dshills/modality/internal/term"
)

// Version information (set via ldflags during build).
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to the configuration file")
	initPath := flag.String("init", "", "path to the init script")
	showVersion := flag.Bool("version", false, "print the version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("modality %s\n", version)
		return 0
	}

	setupLogging()

	if *configPath == "" {
		p, err := config.DefaultPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		*configPath = p
	}
	settings, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if *initPath == "" {
		p, err := script.DefaultPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		*initPath = p
	}
	initRes, err := script.Run(*initPath, settings)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	settings = initRes.Settings

	regs := register.NewStore()
	regPath, err := register.DefaultPath()
	if err != nil {
		log.Printf("register persistence disabled: %v", err)
		regPath = ""
	} else if err := register.Load(regs, regPath); err != nil {
		log.Printf("loading registers: %v", err)
	}
	for reg, macro := range initRes.Macros {
		if err := regs.Set(reg, []string{macro}); err != nil {
			log.Printf("preloading macro %c: %v", reg, err)
		}
	}

	screen, err := term.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer screen.Close()

	ed := newEditor(screen)
	commands := &mappedCommands{
		base:     ed.commandTable(),
		mappings: initRes.Mappings,
	}

	h := input.NewHandler(input.Config{
		Settings:  settings,
		Registers: regs,
		Sink:      ed,
		UI:        ed,
		Commands:  commands,
		Name:      "modality",
		OnError: func(err error) {
			log.Printf("input error: %v", err)
			ed.setStatus(err.Error(), input.FaceError)
		},
	})
	defer h.Close()
	ed.handler = h
	commands.handler = h
	log.Printf("session %s started", h.Context().SessionID())

	// Live configuration reload: the watcher runs off the input thread,
	// so changes are queued and applied on a wake event.
	settingsCh := make(chan config.Settings, 1)
	watcher, err := config.Watch(*configPath, 200*time.Millisecond,
		func(s config.Settings) {
			select {
			case settingsCh <- s:
			default:
			}
			screen.Wake()
		},
		func(err error) { log.Printf("config reload: %v", err) })
	if err != nil {
		log.Printf("config watching disabled: %v", err)
	} else {
		defer watcher.Close()
	}

	for !ed.quit {
		ed.render()

		var timer *time.Timer
		if deadline, ok := h.NextDeadline(); ok {
			timer = time.AfterFunc(time.Until(deadline), screen.Wake)
		}
		ev := screen.Next()
		if timer != nil {
			timer.Stop()
		}

		switch ev.Type {
		case term.EventKey:
			h.HandleKey(ev.Key, false)
		case term.EventPaste:
			h.Paste(ev.Text)
		case term.EventWake:
			h.FireTimers(time.Now())
			select {
			case s := <-settingsCh:
				h.Context().SetSettings(s)
				log.Printf("configuration reloaded")
			default:
			}
		case term.EventResize:
			// Redrawn at the top of the loop.
		case term.EventQuit:
			ed.quit = true
		}
	}

	if regPath != "" {
		if err := register.Save(regs, regPath); err != nil {
			log.Printf("saving registers: %v", err)
		}
	}
	log.Printf("session %s ended", h.Context().SessionID())
	return 0
}

// setupLogging writes the log to the user cache directory; the terminal
// is owned by the screen, so stderr is not usable while running.
func setupLogging() {
	log.SetOutput(io.Discard)
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return
	}
	dir := filepath.Join(cacheDir, "modality")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return
	}
	f, err := os.OpenFile(filepath.Join(dir, "modality.log"),
		os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	log.SetOutput(f)
}
