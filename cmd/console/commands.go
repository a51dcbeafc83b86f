package main

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// commandKind says how the UI should run a parsed command
type commandKind int

const (
	cmdEdit commandKind = iota
	cmdHelp
	cmdValidate
	cmdCopy
	cmdGoto
	cmdQuit
)

// command is a parsed console command. Edits carry the API call to make.
type command struct {
	kind   commandKind
	method string
	path   string
	body   any
	target int // cmdGoto
}

const helpText = `
Commands (act on the selected state):
• /next                      - Add the next turn
• /alt <name> [p] [double]   - Add a possibility on the same turn
• /state <turn> <name>       - Add an unlinked state
• /rename <name>             - Rename
• /weather <none|sunny|rain|sandstorm>
• /type <single|double>      - Set battle type
• /remove                    - Remove the state
• /link <to> [p]             - Link to another state
• /prob <tid> <p>            - Set a transition probability
• /unlink <tid>              - Remove a transition
• /fire <tid>                - Apply a transition's effects
• /box <slot> <key>          - Put a box entry on Self or Self2
• /enemy <slot> <name>       - Put a trainer's member on Enemy or Enemy2
• /hp <slot> <min> <max>     - Set an HP range
• /clear <slot>              - Empty a slot
• /trainer <name>            - Start a tree against a trainer
• /trainer next|defeated|skipped|reset
• /balance, /validate, /copy, /goto <id>, /help, /quit
Tab / Shift+Tab moves between states.
`

// parseCommand turns one input line into a command against state selected
func parseCommand(input string, selected int) (command, error) {
	fields := strings.Fields(input)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return command{}, fmt.Errorf("commands start with /, try /help")
	}
	name, args := strings.ToLower(fields[0]), fields[1:]
	sp := "states/" + strconv.Itoa(selected)

	edit := func(method, path string, body any) (command, error) {
		return command{kind: cmdEdit, method: method, path: path, body: body}, nil
	}

	switch name {
	case "/help":
		return command{kind: cmdHelp}, nil
	case "/validate":
		return command{kind: cmdValidate}, nil
	case "/copy":
		return command{kind: cmdCopy}, nil
	case "/quit":
		return command{kind: cmdQuit}, nil
	case "/goto":
		if len(args) != 1 {
			return command{}, fmt.Errorf("usage: /goto <id>")
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return command{}, fmt.Errorf("invalid state id %q", args[0])
		}
		return command{kind: cmdGoto, target: id}, nil

	case "/next":
		return edit(http.MethodPost, sp+"/next", nil)
	case "/alt":
		if len(args) == 0 {
			return command{}, fmt.Errorf("usage: /alt <name> [p] [double]")
		}
		body := map[string]any{"name": args[0]}
		for _, a := range args[1:] {
			if a == "single" || a == "double" {
				body["battle_type"] = a
				continue
			}
			p, err := strconv.ParseFloat(a, 64)
			if err != nil {
				return command{}, fmt.Errorf("invalid probability %q", a)
			}
			body["probability"] = p
		}
		return edit(http.MethodPost, sp+"/possibilities", body)
	case "/state":
		if len(args) < 2 {
			return command{}, fmt.Errorf("usage: /state <turn> <name>")
		}
		turn, err := strconv.Atoi(args[0])
		if err != nil {
			return command{}, fmt.Errorf("invalid turn %q", args[0])
		}
		return edit(http.MethodPost, "states", map[string]any{"turn": turn, "name": strings.Join(args[1:], " ")})
	case "/rename":
		if len(args) == 0 {
			return command{}, fmt.Errorf("usage: /rename <name>")
		}
		return edit(http.MethodPatch, sp, map[string]any{"name": strings.Join(args, " ")})
	case "/weather":
		if len(args) != 1 {
			return command{}, fmt.Errorf("usage: /weather <none|sunny|rain|sandstorm>")
		}
		return edit(http.MethodPatch, sp, map[string]any{"weather": args[0]})
	case "/type":
		if len(args) != 1 {
			return command{}, fmt.Errorf("usage: /type <single|double>")
		}
		return edit(http.MethodPatch, sp, map[string]any{"battle_type": args[0]})
	case "/remove":
		return edit(http.MethodDelete, sp, nil)
	case "/balance":
		return edit(http.MethodPost, "balance", nil)

	case "/link":
		if len(args) == 0 || len(args) > 2 {
			return command{}, fmt.Errorf("usage: /link <to> [p]")
		}
		to, err := strconv.Atoi(args[0])
		if err != nil {
			return command{}, fmt.Errorf("invalid state id %q", args[0])
		}
		body := map[string]any{"from": selected, "to": to}
		if len(args) == 2 {
			p, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return command{}, fmt.Errorf("invalid probability %q", args[1])
			}
			body["probability"] = p
		}
		return edit(http.MethodPost, "transitions", body)
	case "/prob":
		if len(args) != 2 {
			return command{}, fmt.Errorf("usage: /prob <tid> <p>")
		}
		tid, err := strconv.Atoi(args[0])
		if err != nil {
			return command{}, fmt.Errorf("invalid transition id %q", args[0])
		}
		p, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return command{}, fmt.Errorf("invalid probability %q", args[1])
		}
		return edit(http.MethodPatch, "transitions/"+strconv.Itoa(tid), map[string]any{"probability": p})
	case "/unlink", "/fire":
		if len(args) != 1 {
			return command{}, fmt.Errorf("usage: %s <tid>", name)
		}
		tid, err := strconv.Atoi(args[0])
		if err != nil {
			return command{}, fmt.Errorf("invalid transition id %q", args[0])
		}
		if name == "/fire" {
			return edit(http.MethodPost, "transitions/"+strconv.Itoa(tid)+"/fire", nil)
		}
		return edit(http.MethodDelete, "transitions/"+strconv.Itoa(tid), nil)

	case "/box", "/enemy":
		if len(args) < 2 {
			return command{}, fmt.Errorf("usage: %s <slot> <name>", name)
		}
		key := "box_key"
		if name == "/enemy" {
			key = "trainer_member"
		}
		return edit(http.MethodPut, sp+"/slots/"+url.PathEscape(args[0]), map[string]any{key: strings.Join(args[1:], " ")})
	case "/hp":
		if len(args) != 3 {
			return command{}, fmt.Errorf("usage: /hp <slot> <min> <max>")
		}
		lo, err1 := strconv.Atoi(args[1])
		hi, err2 := strconv.Atoi(args[2])
		if err1 != nil || err2 != nil {
			return command{}, fmt.Errorf("HP bounds must be whole percentages")
		}
		return edit(http.MethodPatch, sp+"/slots/"+url.PathEscape(args[0]), map[string]any{"hp_min": lo, "hp_max": hi})
	case "/clear":
		if len(args) != 1 {
			return command{}, fmt.Errorf("usage: /clear <slot>")
		}
		return edit(http.MethodDelete, sp+"/slots/"+url.PathEscape(args[0]), nil)

	case "/trainer":
		if len(args) == 0 {
			return command{}, fmt.Errorf("usage: /trainer <name|next|defeated|skipped|reset>")
		}
		switch action := strings.ToLower(args[0]); action {
		case "next", "defeated", "skipped", "reset":
			if len(args) == 1 {
				return edit(http.MethodPost, "trainer/"+action, nil)
			}
		}
		return edit(http.MethodPost, "trainers/"+url.PathEscape(strings.Join(args, " "))+"/select", nil)
	}
	return command{}, fmt.Errorf("unknown command %s, try /help", name)
}
