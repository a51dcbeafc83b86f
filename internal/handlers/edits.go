package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jwebster45206/battle-tree/internal/logger"
	"github.com/jwebster45206/battle-tree/internal/session"
	"github.com/jwebster45206/battle-tree/pkg/project"
	"github.com/jwebster45206/battle-tree/pkg/roster"
	"github.com/jwebster45206/battle-tree/pkg/state"
	"github.com/jwebster45206/battle-tree/pkg/transition"
)

// editFunc mutates the project behind e and returns the operation's result
type editFunc func(e *session.Editor, body []byte) (any, error)

// Editing routes, relative to /v1/projects/{id}:
// GET    validate                        - Probability and reachability report
// GET    export                          - The project file
// GET    trainers                        - Trainer progress
// POST   balance                         - Rebalance every state
// POST   states                          - Add an unlinked state {turn, name}
// PATCH  states/{sid}                    - Rename, set weather or battle type
// DELETE states/{sid}                    - Remove a state and its transitions
// POST   states/{sid}/next               - Add the next turn
// POST   states/{sid}/possibilities      - Add an alternative outcome
// PUT    states/{sid}/slots/{slot}       - Assign from the box or the current trainer
// PATCH  states/{sid}/slots/{slot}       - Edit the combatant in a slot
// DELETE states/{sid}/slots/{slot}       - Empty a slot
// POST   transitions                     - Link two states
// PATCH  transitions/{tid}               - Set a transition's probability
// DELETE transitions/{tid}               - Unlink
// POST   transitions/{tid}/effects       - Append an effect
// POST   transitions/{tid}/fire          - Apply a transition's effects
// POST   trainers                        - Add a trainer
// DELETE trainers/{name}                 - Remove a trainer
// POST   trainers/{name}/select          - Start a tree against a trainer
// POST   trainer/next                    - Select the next trainer still to fight
// POST   trainer/defeated                - Mark the current trainer defeated
// POST   trainer/skipped                 - Mark the current trainer skipped
// POST   trainer/reset                   - Clear all trainer progress
// POST   import/showdown                 - Import pasted sets {text, trainer?}
// POST   import/roster                   - Merge a roster file {filename}
func (h *ProjectHandler) handleEdit(w http.ResponseWriter, r *http.Request, id uuid.UUID, segs []string) {
	if r.Method == http.MethodGet {
		h.handleEditRead(w, r, id, segs)
		return
	}

	op, err := h.route(r, segs)
	if err != nil {
		writeError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}
	if op == nil {
		writeError(w, h.logger, http.StatusNotFound, fmt.Sprintf("Unknown operation: %s %s", r.Method, strings.Join(segs, "/")))
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Failed to read request body")
		return
	}

	rec := h.load(w, r, id)
	if rec == nil {
		return
	}
	p, err := rec.Project()
	if err != nil {
		logger.WithError(logger.WithProject(h.logger, id.String()), err).Error("Stored project does not decode")
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load project")
		return
	}

	result, err := op(session.NewEditor(p, h.logger), body)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			logger.WithError(logger.WithProject(h.logger, id.String()), err).Error("Edit failed", "op", strings.Join(segs, "/"))
		} else {
			logger.WithError(logger.WithProject(h.logger, id.String()), err).Debug("Edit rejected", "op", strings.Join(segs, "/"))
		}
		writeError(w, h.logger, status, err.Error())
		return
	}

	rec.Replace(p)
	if err := h.storage.SaveProject(r.Context(), rec); err != nil {
		logger.WithError(logger.WithProject(h.logger, id.String()), err).Error("Failed to save project")
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to save project")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, viewOf(rec, result))
}

func (h *ProjectHandler) handleEditRead(w http.ResponseWriter, r *http.Request, id uuid.UUID, segs []string) {
	if len(segs) != 1 || !slices.Contains([]string{"validate", "export", "trainers"}, segs[0]) {
		writeError(w, h.logger, http.StatusNotFound, "Unknown operation: GET "+strings.Join(segs, "/"))
		return
	}
	rec := h.load(w, r, id)
	if rec == nil {
		return
	}

	switch segs[0] {
	case "export":
		writeJSON(w, h.logger, http.StatusOK, rec.Document)
		return
	}

	p, err := rec.Project()
	if err != nil {
		logger.WithError(logger.WithProject(h.logger, id.String()), err).Error("Stored project does not decode")
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load project")
		return
	}
	e := session.NewEditor(p, h.logger)
	if segs[0] == "validate" {
		writeJSON(w, h.logger, http.StatusOK, e.Validate())
		return
	}
	writeJSON(w, h.logger, http.StatusOK, trainerViews(p))
}

// route picks the operation for a request. A nil op means no route matched.
func (h *ProjectHandler) route(r *http.Request, segs []string) (editFunc, error) {
	method := r.Method
	switch segs[0] {
	case "balance":
		if method == http.MethodPost && len(segs) == 1 {
			return balance, nil
		}
	case "states":
		return routeStates(method, segs[1:])
	case "transitions":
		return routeTransitions(method, segs[1:])
	case "trainers":
		return routeTrainers(method, segs[1:])
	case "trainer":
		if method == http.MethodPost && len(segs) == 2 {
			return trainerProgress(segs[1]), nil
		}
	case "import":
		if method == http.MethodPost && len(segs) == 2 {
			switch segs[1] {
			case "showdown":
				return importShowdown, nil
			case "roster":
				return h.importRoster(r), nil
			}
		}
	}
	return nil, nil
}

func routeStates(method string, segs []string) (editFunc, error) {
	if len(segs) == 0 {
		if method == http.MethodPost {
			return addState, nil
		}
		return nil, nil
	}
	sid, err := strconv.Atoi(segs[0])
	if err != nil {
		return nil, fmt.Errorf("invalid state id %q", segs[0])
	}
	switch {
	case len(segs) == 1 && method == http.MethodPatch:
		return patchState(sid), nil
	case len(segs) == 1 && method == http.MethodDelete:
		return removeState(sid), nil
	case len(segs) == 2 && segs[1] == "next" && method == http.MethodPost:
		return addNextTurn(sid), nil
	case len(segs) == 2 && segs[1] == "possibilities" && method == http.MethodPost:
		return addPossibility(sid), nil
	case len(segs) == 3 && segs[1] == "slots":
		slot, ok := state.ParseSlot(segs[2])
		if !ok {
			return nil, fmt.Errorf("invalid slot %q", segs[2])
		}
		switch method {
		case http.MethodPut:
			return assignSlot(sid, slot), nil
		case http.MethodPatch:
			return editSlot(sid, slot), nil
		case http.MethodDelete:
			return clearSlot(sid, slot), nil
		}
	}
	return nil, nil
}

func routeTransitions(method string, segs []string) (editFunc, error) {
	if len(segs) == 0 {
		if method == http.MethodPost {
			return link, nil
		}
		return nil, nil
	}
	tid, err := strconv.Atoi(segs[0])
	if err != nil {
		return nil, fmt.Errorf("invalid transition id %q", segs[0])
	}
	switch {
	case len(segs) == 1 && method == http.MethodPatch:
		return setProbability(tid), nil
	case len(segs) == 1 && method == http.MethodDelete:
		return unlink(tid), nil
	case len(segs) == 2 && segs[1] == "effects" && method == http.MethodPost:
		return addEffect(tid), nil
	case len(segs) == 2 && segs[1] == "fire" && method == http.MethodPost:
		return fire(tid), nil
	}
	return nil, nil
}

func routeTrainers(method string, segs []string) (editFunc, error) {
	switch {
	case len(segs) == 0 && method == http.MethodPost:
		return addTrainer, nil
	case len(segs) == 1 && method == http.MethodDelete:
		return removeTrainer(segs[0]), nil
	case len(segs) == 2 && segs[1] == "select" && method == http.MethodPost:
		return selectTrainer(segs[0]), nil
	}
	return nil, nil
}

// decode reads an optional JSON body into T
func decode[T any](body []byte) (T, error) {
	var v T
	if len(bytes.TrimSpace(body)) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(body, &v); err != nil {
		return v, fmt.Errorf("invalid JSON in request body: %v: %w", err, session.ErrInvalidInput)
	}
	return v, nil
}

func parseArity(s string) (state.Arity, error) {
	if s == "" {
		return "", nil
	}
	a, ok := state.ParseArity(s)
	if !ok {
		return "", fmt.Errorf("unknown battle_type %q: %w", s, session.ErrInvalidInput)
	}
	return a, nil
}

// transitionID is the id a transition will carry once the project is reloaded
func transitionID(e *session.Editor, edge *transition.Edge) int {
	return slices.Index(e.Tree().Edges(), edge) + 1
}

type stateResult struct {
	State int `json:"state"`
}

type transitionResult struct {
	Transition int `json:"transition"`
}

func balance(e *session.Editor, _ []byte) (any, error) {
	e.Balance()
	return nil, nil
}

type addStateRequest struct {
	Turn int    `json:"turn"`
	Name string `json:"name"`
}

func addState(e *session.Editor, body []byte) (any, error) {
	req, err := decode[addStateRequest](body)
	if err != nil {
		return nil, err
	}
	n, err := e.AddStateInTurn(req.Turn, req.Name)
	if err != nil {
		return nil, err
	}
	return stateResult{State: n.ID}, nil
}

type patchStateRequest struct {
	Name       *string `json:"name,omitempty"`
	Weather    *string `json:"weather,omitempty"`
	BattleType *string `json:"battle_type,omitempty"`
}

func patchState(sid int) editFunc {
	return func(e *session.Editor, body []byte) (any, error) {
		req, err := decode[patchStateRequest](body)
		if err != nil {
			return nil, err
		}
		if req.Name != nil {
			if err := e.Rename(sid, *req.Name); err != nil {
				return nil, err
			}
		}
		if req.Weather != nil {
			w, ok := state.ParseWeather(*req.Weather)
			if !ok {
				return nil, fmt.Errorf("unknown weather %q: %w", *req.Weather, session.ErrInvalidInput)
			}
			if err := e.SetWeather(sid, w); err != nil {
				return nil, err
			}
		}
		if req.BattleType != nil {
			a, err := parseArity(*req.BattleType)
			if err != nil {
				return nil, err
			}
			if err := e.SetArity(sid, a); err != nil {
				return nil, err
			}
		}
		return stateResult{State: sid}, nil
	}
}

func removeState(sid int) editFunc {
	return func(e *session.Editor, _ []byte) (any, error) {
		return nil, e.RemoveState(sid)
	}
}

func addNextTurn(sid int) editFunc {
	return func(e *session.Editor, _ []byte) (any, error) {
		n, err := e.AddNextTurn(sid)
		if err != nil {
			return nil, err
		}
		return stateResult{State: n.ID}, nil
	}
}

type addPossibilityRequest struct {
	Name        string   `json:"name"`
	BattleType  string   `json:"battle_type,omitempty"`
	Probability *float64 `json:"probability,omitempty"`
}

func addPossibility(sid int) editFunc {
	return func(e *session.Editor, body []byte) (any, error) {
		req, err := decode[addPossibilityRequest](body)
		if err != nil {
			return nil, err
		}
		a, err := parseArity(req.BattleType)
		if err != nil {
			return nil, err
		}
		n, err := e.AddPossibility(sid, req.Name, a, req.Probability)
		if err != nil {
			return nil, err
		}
		return stateResult{State: n.ID}, nil
	}
}

type assignSlotRequest struct {
	BoxKey        string `json:"box_key,omitempty"`
	TrainerMember string `json:"trainer_member,omitempty"`
}

func assignSlot(sid int, slot state.Slot) editFunc {
	return func(e *session.Editor, body []byte) (any, error) {
		req, err := decode[assignSlotRequest](body)
		if err != nil {
			return nil, err
		}
		switch {
		case req.BoxKey != "" && req.TrainerMember != "":
			return nil, fmt.Errorf("give box_key or trainer_member, not both: %w", session.ErrInvalidInput)
		case req.BoxKey != "":
			return e.AssignFromBox(sid, slot, req.BoxKey)
		case req.TrainerMember != "":
			return e.AssignFromTrainer(sid, slot, req.TrainerMember)
		}
		return nil, fmt.Errorf("box_key or trainer_member is required: %w", session.ErrInvalidInput)
	}
}

func editSlot(sid int, slot state.Slot) editFunc {
	return func(e *session.Editor, body []byte) (any, error) {
		patch, err := decode[session.CombatantPatch](body)
		if err != nil {
			return nil, err
		}
		return e.EditCombatant(sid, slot, patch)
	}
}

func clearSlot(sid int, slot state.Slot) editFunc {
	return func(e *session.Editor, _ []byte) (any, error) {
		return nil, e.ClearSlot(sid, slot)
	}
}

type linkRequest struct {
	From        int                 `json:"from"`
	To          int                 `json:"to"`
	Probability *float64            `json:"probability,omitempty"`
	Effects     []transition.Effect `json:"effects,omitempty"`
}

func link(e *session.Editor, body []byte) (any, error) {
	req, err := decode[linkRequest](body)
	if err != nil {
		return nil, err
	}
	p := transition.DefaultProbability
	if req.Probability != nil {
		p = *req.Probability
	}
	edge, err := e.Link(req.From, req.To, p, req.Effects...)
	if err != nil {
		return nil, err
	}
	return transitionResult{Transition: transitionID(e, edge)}, nil
}

type probabilityRequest struct {
	Probability *float64 `json:"probability"`
}

func setProbability(tid int) editFunc {
	return func(e *session.Editor, body []byte) (any, error) {
		req, err := decode[probabilityRequest](body)
		if err != nil {
			return nil, err
		}
		if req.Probability == nil {
			return nil, fmt.Errorf("probability is required: %w", session.ErrInvalidInput)
		}
		if err := e.SetProbability(tid, *req.Probability); err != nil {
			return nil, err
		}
		return transitionResult{Transition: tid}, nil
	}
}

func unlink(tid int) editFunc {
	return func(e *session.Editor, _ []byte) (any, error) {
		return nil, e.Unlink(tid)
	}
}

func addEffect(tid int) editFunc {
	return func(e *session.Editor, body []byte) (any, error) {
		eff, err := decode[transition.Effect](body)
		if err != nil {
			return nil, err
		}
		if err := e.AddEffect(tid, eff); err != nil {
			return nil, err
		}
		return transitionResult{Transition: tid}, nil
	}
}

func fire(tid int) editFunc {
	return func(e *session.Editor, _ []byte) (any, error) {
		n, err := e.Fire(tid)
		if err != nil {
			return nil, err
		}
		return stateResult{State: n.ID}, nil
	}
}

type addTrainerRequest struct {
	Name       string `json:"name"`
	BattleType string `json:"battle_type,omitempty"`
}

func addTrainer(e *session.Editor, body []byte) (any, error) {
	req, err := decode[addTrainerRequest](body)
	if err != nil {
		return nil, err
	}
	a, err := parseArity(req.BattleType)
	if err != nil {
		return nil, err
	}
	t, err := e.AddTrainer(strings.TrimSpace(req.Name), a)
	if err != nil {
		return nil, err
	}
	return trainerViewOf(t, e.Project()), nil
}

func removeTrainer(name string) editFunc {
	return func(e *session.Editor, _ []byte) (any, error) {
		return nil, e.RemoveTrainer(name)
	}
}

func selectTrainer(name string) editFunc {
	return func(e *session.Editor, _ []byte) (any, error) {
		t, err := e.SelectTrainer(name)
		if err != nil {
			return nil, err
		}
		return trainerViewOf(t, e.Project()), nil
	}
}

func trainerProgress(action string) editFunc {
	return func(e *session.Editor, _ []byte) (any, error) {
		var err error
		switch action {
		case "next":
			_, err = e.NextTrainer()
		case "defeated":
			_, err = e.MarkDefeated()
		case "skipped":
			_, err = e.MarkSkipped()
		case "reset":
			e.ResetProgress()
		default:
			return nil, fmt.Errorf("unknown trainer action %q: %w", action, session.ErrInvalidInput)
		}
		if err != nil {
			return nil, err
		}
		return trainerViews(e.Project()), nil
	}
}

type importShowdownRequest struct {
	Text    string `json:"text"`
	Trainer string `json:"trainer,omitempty"` // empty imports into the box
	Replace bool   `json:"replace,omitempty"`
}

func importShowdown(e *session.Editor, body []byte) (any, error) {
	req, err := decode[importShowdownRequest](body)
	if err != nil {
		return nil, err
	}
	if req.Trainer != "" {
		return e.ImportShowdownToTrainer(req.Trainer, req.Text, req.Replace)
	}
	return e.ImportShowdownToBox(req.Text)
}

type importRosterRequest struct {
	Filename string `json:"filename"`
	Replace  bool   `json:"replace,omitempty"`
}

func (h *ProjectHandler) importRoster(r *http.Request) editFunc {
	return func(e *session.Editor, body []byte) (any, error) {
		req, err := decode[importRosterRequest](body)
		if err != nil {
			return nil, err
		}
		if req.Filename == "" {
			return nil, fmt.Errorf("filename is required: %w", session.ErrInvalidInput)
		}
		f, err := h.storage.GetRoster(r.Context(), req.Filename)
		if err != nil {
			return nil, fmt.Errorf("%v: %w", err, session.ErrInvalidInput)
		}
		return e.ImportRoster(f, req.Replace)
	}
}

// TrainerView is one trainer with its progress and team
type TrainerView struct {
	Name       string   `json:"name"`
	Label      string   `json:"label"`
	BattleType string   `json:"battle_type"`
	Defeated   bool     `json:"defeated"`
	Skipped    bool     `json:"skipped"`
	Current    bool     `json:"current"`
	Team       []string `json:"team"`
}

func trainerViewOf(t *roster.Trainer, p *project.Project) TrainerView {
	return TrainerView{
		Name:       t.Name,
		Label:      t.Label(),
		BattleType: string(t.Arity),
		Defeated:   t.Defeated,
		Skipped:    t.Skipped,
		Current:    t.Name == p.CurrentTrainer,
		Team:       t.Names(),
	}
}

func trainerViews(p *project.Project) []TrainerView {
	views := make([]TrainerView, 0, p.Enemies.Len())
	for _, name := range p.Enemies.TrainerNames() {
		t, _ := p.Enemies.Trainer(name)
		views = append(views, trainerViewOf(t, p))
	}
	return views
}
