// Package interactive provides the timerctl command shell.
package interactive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/multitimer/multitimer-go/pkg/log"
	"github.com/multitimer/multitimer-go/pkg/manager"
	"github.com/multitimer/multitimer-go/pkg/sound"
	"github.com/multitimer/multitimer-go/pkg/timer"
	"github.com/multitimer/multitimer-go/pkg/timeutil"
)

// Shell errors.
var (
	ErrUsage        = errors.New("usage")
	ErrAmbiguousRef = errors.New("ambiguous timer reference")
	ErrUnknownSound = errors.New("unknown sound")
)

// Deps are the components the shell drives.
type Deps struct {
	Manager *manager.Manager
	Player  *sound.Player

	// Recent backs the "events" command. Optional.
	Recent *log.Recorder
}

// Shell reads commands and applies them to the timer collection.
type Shell struct {
	deps Deps
	out  io.Writer
	rl   *readline.Instance
}

// New creates a shell reading from the terminal.
func New(deps Deps) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "timers> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return &Shell{deps: deps, out: rl.Stdout(), rl: rl}, nil
}

// NewWithOutput creates a shell without a terminal. Commands are fed
// through Execute.
func NewWithOutput(deps Deps, out io.Writer) *Shell {
	return &Shell{deps: deps, out: out}
}

// Stdout returns a writer that coordinates with the prompt.
func (s *Shell) Stdout() io.Writer {
	return s.out
}

// Run starts the interactive command loop.
func (s *Shell) Run(ctx context.Context, cancel context.CancelFunc) {
	if s.rl == nil {
		return
	}
	defer s.rl.Close()

	s.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.out, "Exiting...")
			cancel()
			return
		}

		if !s.Execute(line) {
			fmt.Fprintln(s.out, "Exiting...")
			cancel()
			return
		}
	}
}

// Execute runs one command line. It returns false when the shell should
// exit.
func (s *Shell) Execute(line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return true
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	var err error
	switch cmd {
	case "help", "?":
		s.printHelp()
	case "add", "a":
		err = s.cmdAdd(args)
	case "list", "ls", "l":
		s.cmdList(args)
	case "start":
		err = s.cmdBulk(args, s.deps.Manager.BulkStart)
	case "stop":
		err = s.cmdBulk(args, s.deps.Manager.BulkStop)
	case "reset":
		err = s.withTimer(args, 1, func(t *timer.Timer, _ []string) error {
			t.Reset()
			return nil
		})
	case "set":
		err = s.withTimer(args, 2, s.timeCommand((*timer.Timer).Set))
	case "plus", "+":
		err = s.withTimer(args, 2, s.timeCommand((*timer.Timer).AddTime))
	case "minus", "-":
		err = s.withTimer(args, 2, s.timeCommand((*timer.Timer).SubtractTime))
	case "label":
		err = s.withTimer(args, 2, func(t *timer.Timer, rest []string) error {
			t.SetLabel(strings.Join(rest, " "))
			return nil
		})
	case "color":
		err = s.withTimer(args, 2, s.cmdColor)
	case "sound":
		err = s.withTimer(args, 2, s.cmdSound)
	case "delete", "rm":
		err = s.cmdDelete(args)
	case "suspend":
		s.deps.Manager.WillSuspend()
		fmt.Fprintln(s.out, "Suspended")
	case "resume":
		s.deps.Manager.DidResume()
		fmt.Fprintln(s.out, "Resumed")
		s.cmdList(nil)
	case "sounds":
		s.cmdSounds()
	case "silence":
		s.deps.Player.Stop()
	case "events":
		err = s.cmdEvents(args)
	case "quit", "exit", "q":
		return false
	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}

	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
	}
	return true
}

func (s *Shell) printHelp() {
	fmt.Fprint(s.out, `
Timer Commands:
  Collection:
    add <time>              - Add and start a timer (HH:MM:SS, MM:SS or seconds)
    list [active]           - List timers
    delete <ref>            - Delete a timer

  Countdown:
    start <ref>...          - Start timers
    stop <ref>...           - Stop timers
    reset <ref>             - Stop and restore the configured time
    set <ref> <time>        - Change the configured time
    plus <ref> <time>       - Add time
    minus <ref> <time>      - Subtract time

  Settings:
    label <ref> <text>      - Rename a timer
    color <ref> <name>      - Change the color
    sound <ref> <name>      - Change the alarm sound
    sounds                  - List alarm sounds
    silence                 - Stop the playing alarm

  Application:
    suspend                 - Leave the foreground
    resume                  - Return to the foreground
    events [n]              - Show recent timer events
    help                    - Show this help
    quit                    - Exit

<ref> is a list index or a timer ID prefix.
`)
}

func (s *Shell) cmdAdd(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: add <time>", ErrUsage)
	}
	d, err := timeutil.ParseTime(args[0])
	if err != nil {
		return err
	}
	t, err := s.deps.Manager.AddTimer(d.Seconds())
	if err != nil {
		return err
	}
	snap := t.Snapshot()
	fmt.Fprintf(s.out, "Added %s (%s) %s\n", snap.Label, shortID(snap.ID), snap.Configured())
	return nil
}

func (s *Shell) cmdList(args []string) {
	activeOnly := len(args) > 0 && strings.EqualFold(args[0], "active")
	timers := s.deps.Manager.ListTimers(activeOnly)
	if len(timers) == 0 {
		fmt.Fprintln(s.out, "No timers")
		return
	}

	all := s.deps.Manager.ListTimers(false)
	index := make(map[string]int, len(all))
	for i, t := range all {
		index[t.ID()] = i + 1
	}

	for _, t := range timers {
		snap := t.Snapshot()
		fmt.Fprintf(s.out, "%2d  %s  %-16s %s / %s  %-8s %3.0f%%  %-11s %s\n",
			index[snap.ID], shortID(snap.ID), snap.Label,
			snap.Remaining(), snap.Configured(), snap.State, snap.Progress*100,
			snap.Color, snap.AlarmSoundName)
	}
}

func (s *Shell) cmdBulk(args []string, fn func(ids ...string) error) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: <ref>...", ErrUsage)
	}
	ids := make([]string, 0, len(args))
	var errs []error
	for _, ref := range args {
		t, err := s.resolve(ref)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		ids = append(ids, t.ID())
	}
	errs = append(errs, fn(ids...))
	return errors.Join(errs...)
}

func (s *Shell) cmdDelete(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: delete <ref>", ErrUsage)
	}
	t, err := s.resolve(args[0])
	if err != nil {
		return err
	}
	label := t.Snapshot().Label
	if err := s.deps.Manager.DeleteTimer(t.ID()); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Deleted %s\n", label)
	return nil
}

func (s *Shell) cmdColor(t *timer.Timer, rest []string) error {
	c, err := timer.ParseColor(rest[0])
	if err != nil {
		return err
	}
	t.SetColor(c)
	return nil
}

func (s *Shell) cmdSound(t *timer.Timer, rest []string) error {
	snd, ok := s.deps.Player.Catalog().Lookup(rest[0])
	if !ok {
		return fmt.Errorf("%w: %s (see 'sounds')", ErrUnknownSound, rest[0])
	}
	t.SetAlarmSoundName(snd.Name)
	return nil
}

func (s *Shell) cmdSounds() {
	playing, ok := s.deps.Player.Playing()
	for _, snd := range s.deps.Player.Catalog().Sounds() {
		marker := " "
		if ok && snd.Name == playing {
			marker = "*"
		}
		fmt.Fprintf(s.out, "%s %-10s %s\n", marker, snd.Name, snd.DisplayName)
	}
}

func (s *Shell) cmdEvents(args []string) error {
	if s.deps.Recent == nil {
		fmt.Fprintln(s.out, "Event history disabled")
		return nil
	}
	n := 10
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v <= 0 {
			return fmt.Errorf("%w: events [n]", ErrUsage)
		}
		n = v
	}
	events := s.deps.Recent.Events()
	if len(events) > n {
		events = events[len(events)-n:]
	}
	for _, e := range events {
		fmt.Fprintf(s.out, "%s %-9s %-8s %s\n", e.Timestamp.Format("15:04:05"), e.Category, shortID(e.TimerID), describe(e))
	}
	return nil
}

// withTimer resolves args[0] and passes the remaining arguments to fn.
func (s *Shell) withTimer(args []string, want int, fn func(*timer.Timer, []string) error) error {
	if len(args) < want {
		return fmt.Errorf("%w: expected %d arguments", ErrUsage, want)
	}
	t, err := s.resolve(args[0])
	if err != nil {
		return err
	}
	if err := fn(t, args[1:]); err != nil {
		return err
	}
	snap := t.Snapshot()
	fmt.Fprintf(s.out, "%s: %s / %s %s\n", snap.Label, snap.Remaining(), snap.Configured(), snap.State)
	return nil
}

func (s *Shell) timeCommand(apply func(*timer.Timer, int)) func(*timer.Timer, []string) error {
	return func(t *timer.Timer, rest []string) error {
		d, err := timeutil.ParseTime(rest[0])
		if err != nil {
			return err
		}
		apply(t, d.Seconds())
		return nil
	}
}

// resolve finds a timer by 1-based list index or by ID prefix.
func (s *Shell) resolve(ref string) (*timer.Timer, error) {
	timers := s.deps.Manager.ListTimers(false)
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(timers) {
		return timers[n-1], nil
	}

	var match *timer.Timer
	for _, t := range timers {
		if strings.HasPrefix(t.ID(), ref) {
			if match != nil {
				return nil, fmt.Errorf("%w: %s", ErrAmbiguousRef, ref)
			}
			match = t
		}
	}
	if match == nil {
		return nil, fmt.Errorf("%w: %s", manager.ErrTimerNotFound, ref)
	}
	return match, nil
}

func shortID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func describe(e log.Event) string {
	switch {
	case e.StateChange != nil:
		return fmt.Sprintf("%s %s (%s)", e.Label, e.StateChange.NewState, e.StateChange.Reason)
	case e.Schedule != nil:
		return fmt.Sprintf("%s %s +%ds", e.Label, e.Schedule.Action, e.Schedule.FireAfterSeconds)
	case e.Alarm != nil:
		return fmt.Sprintf("%s %s (%s)", e.Label, e.Alarm.Sound, e.Alarm.Trigger)
	case e.Lifecycle != nil:
		return fmt.Sprintf("%s %s %ds", e.Label, e.Lifecycle.Phase, e.Lifecycle.ElapsedSeconds)
	case e.Error != nil:
		return fmt.Sprintf("%s: %s", e.Error.Component, e.Error.Message)
	}
	return e.Label
}
