package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/alex-user-go/getaway/internal/app"
	"github.com/alex-user-go/getaway/internal/cli/output"
)

const shellHelp = `Commands:
  search <destination> <checkin> <nights> <adults>   new search (clears cached rates and flights)
  list                                               show current hotels
  rates <hotel>                                      fetch all rates of a hotel
  flight <hotel> <origin> <destination>              pair a flight on the check-in date
  prebook <hotel>                                    lock the price of the first rate
  info <hotel>                                       show hotel rich content
  prefetch [n]                                       fetch rates of the first n hotels
  stats                                              show session state
  help                                               show this help
  quit                                               leave the shell
<hotel> is a position from list or a hotel key. Ctrl-C cancels the running command.`

// ShellCmd starts an interactive session.
func ShellCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive search session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			var wg sync.WaitGroup
			wg.Go(func() {
				if err := e.app.ServeOps(ctx); err != nil {
					e.printer.Warning("ops server: %v", err)
				}
			})
			defer wg.Wait()

			// Ctrl-C cancels the running command instead of the process
			signal.Reset(os.Interrupt)
			interrupts := make(chan os.Signal, 1)
			signal.Notify(interrupts, os.Interrupt)
			defer signal.Stop(interrupts)

			sh := NewShell(e.app, e.printer, cmd.InOrStdin(), e.jsonOut)
			sh.interrupts = interrupts
			return sh.Run(ctx)
		},
	}
}

// Shell reads commands line by line and drives a session.
type Shell struct {
	app        *app.App
	printer    *output.Printer
	in         io.Reader
	jsonOut    bool
	interrupts <-chan os.Signal

	mu      sync.Mutex
	running context.CancelFunc
}

// NewShell creates a new Shell.
func NewShell(a *app.App, printer *output.Printer, in io.Reader, jsonOut bool) *Shell {
	return &Shell{
		app:     a,
		printer: printer,
		in:      in,
		jsonOut: jsonOut,
	}
}

// Run processes commands until quit, end of input or ctx is done. Failed
// commands are reported and the shell keeps running.
func (s *Shell) Run(ctx context.Context) error {
	go s.watchInterrupts(ctx)

	scanner := bufio.NewScanner(s.in)
	s.prompt()
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) > 0 {
			if fields[0] == "quit" || fields[0] == "exit" {
				return nil
			}
			if err := s.exec(ctx, fields[0], fields[1:]); err != nil {
				s.printer.Error("%s", errorMessage(err))
			}
		}
		s.prompt()
	}
	return scanner.Err()
}

func (s *Shell) prompt() {
	if !s.jsonOut {
		fmt.Fprint(s.printer.Out(), "getaway> ")
	}
}

func (s *Shell) watchInterrupts(ctx context.Context) {
	if s.interrupts == nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.interrupts:
			s.mu.Lock()
			cancel := s.running
			s.mu.Unlock()
			if cancel != nil {
				cancel()
			} else {
				s.printer.Info("\n(type quit to exit)")
			}
		}
	}
}

// exec runs one command with a context cancelled by Ctrl-C.
func (s *Shell) exec(ctx context.Context, name string, args []string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	s.running = cancel
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = nil
		s.mu.Unlock()
	}()

	sess := s.app.Session

	switch name {
	case "help":
		s.printer.Print("%s", shellHelp)
		return nil

	case "search":
		if len(args) < 4 {
			return errors.New("usage: search <destination> <checkin> <nights> <adults>")
		}
		n := len(args)
		nights, err := strconv.Atoi(args[n-2])
		if err != nil {
			return errors.New("nights must be a positive integer")
		}
		adults, err := strconv.Atoi(args[n-1])
		if err != nil {
			return errors.New("adults must be a positive integer")
		}
		q := s.app.Query(strings.Join(args[:n-3], " "), args[n-3], nights, adults)

		if _, err := sess.Search(ctx, q); err != nil {
			return err
		}
		return s.list()

	case "list":
		return s.list()

	case "rates":
		if len(args) != 1 {
			return errors.New("usage: rates <hotel>")
		}
		rates, err := sess.Rates(ctx, args[0])
		if err != nil {
			return err
		}
		h, _ := sess.Hotel(args[0])
		return s.render(rates, func() error { return renderRates(s.printer, h.Name, rates) })

	case "flight":
		if len(args) != 3 {
			return errors.New("usage: flight <hotel> <origin> <destination>")
		}
		offer, err := sess.Flight(ctx, args[0], args[1], args[2])
		if err != nil {
			return err
		}
		return s.render(offer, func() error { return renderFlight(s.printer, offer) })

	case "prebook":
		if len(args) != 1 {
			return errors.New("usage: prebook <hotel>")
		}
		pb, err := sess.Prebook(ctx, args[0])
		if err != nil {
			return err
		}
		return s.render(pb, func() error { return renderPrebooking(s.printer, pb) })

	case "info":
		if len(args) != 1 {
			return errors.New("usage: info <hotel>")
		}
		info, err := sess.Info(ctx, args[0])
		if err != nil {
			return err
		}
		return s.printer.JSON(info.Raw)

	case "prefetch":
		n := 0
		if len(args) > 0 {
			v, err := strconv.Atoi(args[0])
			if err != nil || v < 1 {
				return errors.New("usage: prefetch [n]")
			}
			n = v
		}
		res, err := sess.Prefetch(ctx, n)
		if rerr := s.render(res, func() error {
			s.printer.Success("rates fetched: %d, already cached: %d, failed: %d", res.Fetched, res.Cached, res.Failed)
			return nil
		}); rerr != nil {
			return rerr
		}
		return err

	case "stats":
		snap := sess.Snapshot()
		return s.render(snap, func() error {
			renderStats(s.printer, snap)
			return nil
		})

	default:
		return fmt.Errorf("unknown command %q (type help)", name)
	}
}

func (s *Shell) list() error {
	snap := s.app.Session.Snapshot()
	return s.render(snap, func() error { return renderEntries(s.printer, snap) })
}

func (s *Shell) render(v any, text func() error) error {
	if s.jsonOut {
		return s.printer.JSON(v)
	}
	return text()
}
