package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"

	"github.com/ericfisherdev/watermyplant/internal/adapter/driven/api"
	"github.com/ericfisherdev/watermyplant/internal/adapter/driving/viewmodel"
	"github.com/ericfisherdev/watermyplant/internal/domain/model"
)

type command struct {
	usage string
	run   func(ctx context.Context, a *app, args []string) error
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"register":     {"-username NAME -password PASS [-confirm PASS]", cmdRegister},
		"login":        {"-username NAME -password PASS", cmdLogin},
		"logout":       {"", cmdLogout},
		"whoami":       {"", cmdWhoami},
		"status":       {"", cmdStatus},
		"plants":       {"", cmdPlants},
		"show":         {"PLANT_ID [-html]", cmdShow},
		"add":          {"-name NAME -type TYPE [-description TEXT]", cmdAdd},
		"edit":         {"PLANT_ID [-name NAME] [-type TYPE] [-description TEXT]", cmdEdit},
		"delete":       {"PLANT_ID", cmdDelete},
		"water":        {"PLANT_ID [-fertilizer] [-notes TEXT]", cmdWater},
		"water-legacy": {"PLANT_ID", cmdWaterLegacy},
		"history":      {"PLANT_ID", cmdHistory},
		"edit-event":   {"EVENT_ID [-fertilizer=true|false] [-notes TEXT]", cmdEditEvent},
		"delete-event": {"EVENT_ID", cmdDeleteEvent},
	}
}

func lookupCommand(name string) (command, bool) {
	cmd, ok := commands[name]
	return cmd, ok
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: watermyplant [-metrics] COMMAND [ARGS]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, name := range names {
		fmt.Fprintf(tw, "  %s\t%s\n", name, commands[name].usage)
	}
	_ = tw.Flush()
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// parseWithID reads a leading ID argument followed by flags.
func parseWithID(fs *flag.FlagSet, args []string) (uuid.UUID, error) {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return uuid.Nil, fmt.Errorf("%s: missing ID", fs.Name())
	}
	id, err := uuid.Parse(args[0])
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: invalid ID %q: %w", fs.Name(), args[0], err)
	}
	if err := fs.Parse(args[1:]); err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", fs.Name(), err)
	}
	return id, nil
}

// actionErr converts a failed screen action into an error for the exit
// status. The backend's detail is appended when it adds information.
func actionErr(a viewmodel.Action) error {
	if a.Status != viewmodel.StatusError {
		return nil
	}
	if a.Detail != "" && a.Detail != a.Err {
		return fmt.Errorf("%s (%s)", a.Err, a.Detail)
	}
	return errors.New(a.Err)
}

func cmdRegister(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("register")
	username := fs.String("username", "", "account name")
	password := fs.String("password", "", "account password")
	confirm := fs.String("confirm", "", "password confirmation; defaults to -password")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	if *confirm == "" {
		*confirm = *password
	}

	r := viewmodel.NewRegister(ctx, a.auth)
	defer r.Close()
	r.Register(*username, *password, *confirm)
	r.Wait()

	if err := actionErr(r.State().Action); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Registered and logged in as %s\n", r.State().User.Username)
	return nil
}

func cmdLogin(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("login")
	username := fs.String("username", "", "account name")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("login: %w", err)
	}

	l := viewmodel.NewLogin(ctx, a.auth)
	defer l.Close()
	l.Login(*username, *password)
	l.Wait()

	if err := actionErr(l.State().Action); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Logged in as %s\n", *username)
	return nil
}

func cmdLogout(ctx context.Context, a *app, _ []string) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func cmdWhoami(ctx context.Context, a *app, _ []string) error {
	user, err := a.auth.CurrentUser(ctx).Get()
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s (%s)\n", user.Username, user.ID)
	if !user.IsActive {
		fmt.Fprintln(a.out, "account is inactive")
	}
	return nil
}

// cmdStatus reports the local session without contacting the backend.
func cmdStatus(ctx context.Context, a *app, _ []string) error {
	fmt.Fprintf(a.out, "Backend: %s\n", a.cfg.BaseURL)

	watchCtx, cancel := context.WithCancel(ctx)
	authed := <-a.auth.IsAuthenticated(watchCtx)
	cancel()
	token, ok := a.tokens.Current()
	if !authed || !ok {
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}

	claims, err := api.InspectToken(token)
	if err != nil {
		fmt.Fprintln(a.out, "Logged in (token is not a readable JWT)")
		return nil
	}
	fmt.Fprintf(a.out, "Logged in as %s\n", claims.Subject)
	if claims.ExpiresAt != nil {
		state := "expires"
		if claims.Expired(a.clock.Now()) {
			state = "expired"
		}
		fmt.Fprintf(a.out, "Token %s %s\n", state, claims.ExpiresAt.Local().Format(time.RFC1123))
	}
	return nil
}

func cmdPlants(ctx context.Context, a *app, _ []string) error {
	l := viewmodel.NewPlantList(ctx, a.plants, a.auth)
	defer l.Close()
	l.LoadPlants()
	l.Wait()

	state := l.State()
	if err := actionErr(state.Action); err != nil {
		return err
	}
	if len(state.Plants) == 0 {
		fmt.Fprintln(a.out, "No plants yet")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTYPE\tLAST WATERED")
	for _, p := range state.Plants {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Type, viewmodel.FormatDate(p.LastWatered))
	}
	return tw.Flush()
}

func cmdShow(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("show")
	asHTML := fs.Bool("html", false, "print the description rendered as HTML")
	id, err := parseWithID(fs, args)
	if err != nil {
		return err
	}

	d := viewmodel.NewPlantDetail(ctx, a.plants, a.clock)
	defer d.Close()
	d.LoadPlant(id)
	d.Wait()

	state := d.State()
	if err := actionErr(state.Action); err != nil {
		return err
	}

	p := state.Plant
	fmt.Fprintf(a.out, "%s (%s)\n", p.Name, p.Type)
	fmt.Fprintf(a.out, "Last watered: %s\n", viewmodel.FormatDate(p.LastWatered))
	switch {
	case *asHTML && state.DescriptionHTML != "":
		fmt.Fprintln(a.out, state.DescriptionHTML)
	case p.Description != nil:
		fmt.Fprintln(a.out, *p.Description)
	}
	fmt.Fprintln(a.out)
	return writeHistory(a.out, state.History)
}

func cmdAdd(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("add")
	name := fs.String("name", "", "plant name")
	kind := fs.String("type", "", "plant type")
	description := fs.String("description", "", "care notes, markdown allowed")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("add: %w", err)
	}

	h := viewmodel.NewAddPlant(ctx, a.plants, a.clock)
	defer h.Close()
	h.AddPlant(*name, *kind, *description)
	h.Wait()

	if err := actionErr(h.State().Action); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added %s (%s)\n", h.State().Plant.Name, h.State().Plant.ID)
	return nil
}

// cmdEdit loads the plant first so flags left unset keep their values.
func cmdEdit(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("edit")
	name := fs.String("name", "", "new name")
	kind := fs.String("type", "", "new type")
	description := fs.String("description", "", "new description")
	id, err := parseWithID(fs, args)
	if err != nil {
		return err
	}

	var changes model.PlantUpdate
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			changes.Name = name
		case "type":
			changes.Type = kind
		case "description":
			changes.Description = description
		}
	})
	if changes.IsEmpty() {
		return errors.New("edit: nothing to change; pass -name, -type or -description")
	}

	h := viewmodel.NewEditPlant(ctx, a.plants)
	defer h.Close()
	h.LoadPlant(id)
	h.Wait()
	if err := actionErr(h.State().Action); err != nil {
		return err
	}

	current := h.State().Plant
	if *name == "" {
		*name = current.Name
	}
	if *kind == "" {
		*kind = current.Type
	}

	h.UpdatePlant(id, *name, *kind, *description)
	h.Wait()
	if err := actionErr(h.State().Action); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Updated %s\n", h.State().Plant.Name)
	return nil
}

func cmdDelete(ctx context.Context, a *app, args []string) error {
	id, err := parseWithID(newFlagSet("delete"), args)
	if err != nil {
		return err
	}

	d := viewmodel.NewPlantDetail(ctx, a.plants, a.clock)
	defer d.Close()
	d.DeletePlant(id)
	d.Wait()

	if err := actionErr(d.State().Action); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Deleted")
	return nil
}

func cmdWater(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("water")
	fertilizer := fs.Bool("fertilizer", false, "fertilizer was added")
	notes := fs.String("notes", "", "notes")
	id, err := parseWithID(fs, args)
	if err != nil {
		return err
	}

	d := viewmodel.NewPlantDetail(ctx, a.plants, a.clock)
	defer d.Close()
	d.RecordWatering(id, *fertilizer, *notes)
	d.Wait()

	state := d.State()
	if err := actionErr(state.Action); err != nil {
		return err
	}
	if len(state.History) > 0 {
		fmt.Fprintf(a.out, "Watered %s (event %s)\n", state.Plant.Name, state.History[0].ID)
	} else {
		fmt.Fprintf(a.out, "Watered %s\n", state.Plant.Name)
	}
	return nil
}

func cmdWaterLegacy(ctx context.Context, a *app, args []string) error {
	id, err := parseWithID(newFlagSet("water-legacy"), args)
	if err != nil {
		return err
	}

	plant, err := a.plants.WaterPlant(ctx, id).Get()
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Marked %s watered on %s\n", plant.Name, viewmodel.FormatDate(plant.LastWatered))
	return nil
}

func cmdHistory(ctx context.Context, a *app, args []string) error {
	id, err := parseWithID(newFlagSet("history"), args)
	if err != nil {
		return err
	}

	events, err := a.plants.WateringHistory(ctx, id).Get()
	if err != nil {
		return err
	}
	return writeHistory(a.out, events)
}

// cmdEditEvent sends only the flags given on the command line.
func cmdEditEvent(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("edit-event")
	fertilizer := fs.Bool("fertilizer", false, "fertilizer was added")
	notes := fs.String("notes", "", "notes")
	id, err := parseWithID(fs, args)
	if err != nil {
		return err
	}

	var fertilizerArg *bool
	var notesArg *string
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "fertilizer":
			fertilizerArg = fertilizer
		case "notes":
			notesArg = notes
		}
	})
	if fertilizerArg == nil && notesArg == nil {
		return errors.New("edit-event: nothing to change; pass -fertilizer or -notes")
	}

	d := viewmodel.NewPlantDetail(ctx, a.plants, a.clock)
	defer d.Close()
	d.EditWateringEvent(id, fertilizerArg, notesArg)
	d.Wait()

	if err := actionErr(d.State().Action); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Updated watering event")
	return nil
}

func cmdDeleteEvent(ctx context.Context, a *app, args []string) error {
	id, err := parseWithID(newFlagSet("delete-event"), args)
	if err != nil {
		return err
	}

	d := viewmodel.NewPlantDetail(ctx, a.plants, a.clock)
	defer d.Close()
	d.DeleteWateringEvent(id)
	d.Wait()

	if err := actionErr(d.State().Action); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Deleted watering event")
	return nil
}

func writeHistory(w io.Writer, events []model.WateringEvent) error {
	if len(events) == 0 {
		fmt.Fprintln(w, "No watering recorded")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "EVENT\tWATERED AT\tFERTILIZER\tNOTES")
	for _, e := range events {
		notes := ""
		if e.Notes != nil {
			notes = *e.Notes
		}
		fertilizer := "no"
		if e.FertilizerUsed {
			fertilizer = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.ID, e.WateredAt.Local().Format("2006-01-02 15:04"), fertilizer, notes)
	}
	return tw.Flush()
}
