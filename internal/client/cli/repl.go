package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool

	Register(ctx context.Context) error
	Login(ctx context.Context) error

	Profile(ctx context.Context) error
	EditProfile(ctx context.Context) error
	Workouts(ctx context.Context) error
	Workout(ctx context.Context, id string) error
	AddWorkout(ctx context.Context) error
	DeleteWorkout(ctx context.Context, id string) error
	Stats(ctx context.Context) error
	Goals(ctx context.Context) error
	AddGoal(ctx context.Context) error
	Progress(ctx context.Context, id string) error
	DeleteGoal(ctx context.Context, id string) error
	Logout(ctx context.Context) error
}

const (
	guestHelp  = "Available commands: register, login, exit"
	memberHelp = "Available commands: profile, editprofile, workouts, workout <id>, addworkout, " +
		"delworkout <id>, stats, goals, addgoal, progress <id>, delgoal <id>, logout, exit"
)

// runREPL starts a simple read-eval-print loop for the fittrack CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Only the commands of the current session
// state are accepted:
//
//	Signed out:
//	  - help              show available commands
//	  - register          create an account
//	  - login             authenticate
//	  - exit | quit       leave the program
//
//	Signed in:
//	  - help              show available commands
//	  - profile           refresh and show the profile
//	  - editprofile       change profile fields
//	  - workouts          list workouts
//	  - workout <id>      show one workout
//	  - addworkout        record a workout
//	  - delworkout <id>   delete a workout
//	  - stats             workout summary
//	  - goals             list goals
//	  - addgoal           create a goal
//	  - progress <id>     record goal progress
//	  - delgoal <id>      delete a goal
//	  - logout            sign out
//	  - exit | quit       leave the program
//
// Handler errors are printed through describeError and never end the loop.
// The loop exits on end of input or when the user types "exit" or "quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("fittrack %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if cmd == "exit" || cmd == "quit" {
			printlnFn("Bye!")
			return
		}

		var cmdErr error
		if a.isLoggedIn() {
			cmdErr = dispatchMember(ctx, a, cmd, args)
		} else {
			cmdErr = dispatchGuest(ctx, a, cmd)
		}
		if cmdErr != nil {
			printlnFn(describeError(cmdErr))
		}

		if ctx.Err() != nil {
			return
		}
	}
}

type unknownCommand string

func (c unknownCommand) Error() string { return "unknown command: " + string(c) }

func dispatchGuest(ctx context.Context, a execIface, cmd string) error {
	switch cmd {
	case "help":
		printlnFn(guestHelp)
		return nil
	case "register":
		return a.Register(ctx)
	case "login":
		return a.Login(ctx)
	default:
		return unknownCommand(cmd)
	}
}

func dispatchMember(ctx context.Context, a execIface, cmd string, args []string) error {
	switch cmd {
	case "help":
		printlnFn(memberHelp)
		return nil
	case "profile":
		return a.Profile(ctx)
	case "editprofile":
		return a.EditProfile(ctx)
	case "workouts":
		return a.Workouts(ctx)
	case "addworkout":
		return a.AddWorkout(ctx)
	case "stats":
		return a.Stats(ctx)
	case "goals":
		return a.Goals(ctx)
	case "addgoal":
		return a.AddGoal(ctx)
	case "logout":
		return a.Logout(ctx)
	}

	withID := map[string]func(context.Context, string) error{
		"workout":    a.Workout,
		"delworkout": a.DeleteWorkout,
		"progress":   a.Progress,
		"delgoal":    a.DeleteGoal,
	}
	fn, ok := withID[cmd]
	if !ok {
		return unknownCommand(cmd)
	}
	if len(args) == 0 {
		return fmt.Errorf("usage: %s <id>", cmd)
	}
	return fn(ctx, args[0])
}
