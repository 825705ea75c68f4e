package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"golang.org/x/term"

	"github.com/Strob0t/Consilium/internal/adapter/postgres"
	"github.com/Strob0t/Consilium/internal/adapter/ws"
	"github.com/Strob0t/Consilium/internal/config"
	"github.com/Strob0t/Consilium/internal/domain/panel"
	"github.com/Strob0t/Consilium/internal/logger"
	"github.com/Strob0t/Consilium/internal/service"
)

// runAdmin dispatches admin subcommands for panel and decision maintenance.
func runAdmin(args []string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "--help" {
		printAdminHelp()
		return nil
	}

	switch args[0] {
	case "add-member":
		return runAdminAddMember(args[1:])
	case "list-members":
		return runAdminListMembers(args[1:])
	case "deactivate-member":
		return runAdminSetMemberActive(args[1:], false)
	case "reactivate-member":
		return runAdminSetMemberActive(args[1:], true)
	case "list-decisions":
		return runAdminListDecisions(args[1:])
	case "show-decision":
		return runAdminShowDecision(args[1:])
	default:
		printAdminHelp()
		return fmt.Errorf("unknown admin command: %s", args[0])
	}
}

func printAdminHelp() {
	fmt.Fprintf(os.Stderr, `Usage: consilium admin <command> [options]

Commands:
  add-member         Register a new panel member
  list-members       List all panel members
  deactivate-member  Remove a member from participant selection
  reactivate-member  Restore a deactivated member
  list-decisions     List recent decisions
  show-decision      Show a decision with its per-round outcomes
  help               Show this help message

Examples:
  consilium admin add-member --name "Risk Officer" --role risk --domains "risk:5,finance:3" --veto risk
  consilium admin list-members
  consilium admin deactivate-member --id 7f1c... --yes
  consilium admin list-decisions --limit 20
  consilium admin show-decision --id 9a2e...
`)
}

type adminDeps struct {
	panel     *service.PanelService
	decisions *service.DecisionService
	cleanup   func()
}

func loadAdminDeps() (*adminDeps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, closeLogger := logger.New(cfg.Logging)

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		closeLogger.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	store := postgres.NewStore(pool)
	histStore := postgres.NewHistoryStore(pool)

	return &adminDeps{
		panel:     service.NewPanelService(store, ws.NewHub(), log),
		decisions: service.NewDecisionService(store, histStore, nil, 0, log),
		cleanup: func() {
			pool.Close()
			closeLogger.Close()
		},
	}, nil
}

func runAdminAddMember(args []string) error {
	fs := flag.NewFlagSet("add-member", flag.ContinueOnError)
	name := fs.String("name", "", "member name (required)")
	role := fs.String("role", "", "member role (required)")
	domains := fs.String("domains", "", `comma-separated domain:priority pairs, e.g. "risk:5,finance:3"`)
	veto := fs.String("veto", "", "comma-separated domains with veto authority")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *name == "" {
		return fmt.Errorf("--name is required")
	}
	if *role == "" {
		return fmt.Errorf("--role is required")
	}

	priorities, err := parseDomainPriorities(*domains)
	if err != nil {
		return err
	}

	var vetoRights []string
	if *veto != "" {
		vetoRights = strings.Split(*veto, ",")
		for i := range vetoRights {
			vetoRights[i] = strings.TrimSpace(vetoRights[i])
		}
	}

	deps, err := loadAdminDeps()
	if err != nil {
		return err
	}
	defer deps.cleanup()

	m, err := deps.panel.Register(context.Background(), panel.CreateRequest{
		Name:             *name,
		Role:             *role,
		DomainPriorities: priorities,
		VetoRights:       vetoRights,
	})
	if err != nil {
		return fmt.Errorf("add member: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Member registered: %s (id=%s, role=%s)\n", m.Name, m.ID, m.Role)
	return nil
}

func runAdminListMembers(args []string) error {
	fs := flag.NewFlagSet("list-members", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	deps, err := loadAdminDeps()
	if err != nil {
		return err
	}
	defer deps.cleanup()

	members, err := deps.panel.List(context.Background())
	if err != nil {
		return fmt.Errorf("list members: %w", err)
	}

	if len(members) == 0 {
		fmt.Println("No panel members found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tROLE\tDOMAINS\tVETO\tACTIVE")
	for i := range members {
		m := &members[i]
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%t\n",
			m.ID, m.Name, m.Role, formatPriorities(m.DomainPriorities),
			strings.Join(m.VetoRights, ","), m.Active)
	}
	return w.Flush()
}

func runAdminSetMemberActive(args []string, active bool) error {
	fs := flag.NewFlagSet("set-member-active", flag.ContinueOnError)
	id := fs.String("id", "", "member ID (required)")
	yes := fs.Bool("yes", false, "skip the confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *id == "" {
		return fmt.Errorf("--id is required")
	}

	if !active && !*yes {
		// Deactivation drops the member from every future round, so require
		// an explicit confirmation when running interactively.
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return fmt.Errorf("refusing to deactivate without --yes in a non-interactive session")
		}
		fmt.Fprintf(os.Stderr, "Deactivate member %s? [y/N]: ", *id)
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return fmt.Errorf("read confirmation: %w", err)
		}
		if answer := strings.ToLower(strings.TrimSpace(line)); answer != "y" && answer != "yes" {
			fmt.Fprintln(os.Stderr, "Aborted.")
			return nil
		}
	}

	deps, err := loadAdminDeps()
	if err != nil {
		return err
	}
	defer deps.cleanup()

	m, err := deps.panel.SetActive(context.Background(), *id, active)
	if err != nil {
		return fmt.Errorf("update member: %w", err)
	}

	state := "deactivated"
	if active {
		state = "reactivated"
	}
	fmt.Fprintf(os.Stderr, "Member %s: %s (id=%s)\n", state, m.Name, m.ID)
	return nil
}

func runAdminListDecisions(args []string) error {
	fs := flag.NewFlagSet("list-decisions", flag.ContinueOnError)
	limit := fs.Int("limit", 20, "maximum number of decisions to list")
	if err := fs.Parse(args); err != nil {
		return err
	}

	deps, err := loadAdminDeps()
	if err != nil {
		return err
	}
	defer deps.cleanup()

	decisions, err := deps.decisions.List(context.Background(), *limit)
	if err != nil {
		return fmt.Errorf("list decisions: %w", err)
	}

	if len(decisions) == 0 {
		fmt.Println("No decisions found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tSTATUS\tROUNDS\tESCALATED\tQUERY\tCREATED")
	for i := range decisions {
		d := &decisions[i]
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%t\t%s\t%s\n",
			d.ID, d.Status, d.Rounds, d.Escalated,
			truncate(d.Query, 60), d.CreatedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func runAdminShowDecision(args []string) error {
	fs := flag.NewFlagSet("show-decision", flag.ContinueOnError)
	id := fs.String("id", "", "decision ID (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return fmt.Errorf("--id is required")
	}

	deps, err := loadAdminDeps()
	if err != nil {
		return err
	}
	defer deps.cleanup()

	ctx := context.Background()
	d, err := deps.decisions.Get(ctx, *id)
	if err != nil {
		return fmt.Errorf("get decision: %w", err)
	}
	rounds, err := deps.decisions.History(ctx, *id)
	if err != nil {
		return fmt.Errorf("load rounds: %w", err)
	}

	fmt.Printf("Decision %s\n", d.ID)
	fmt.Printf("  Query:     %s\n", d.Query)
	fmt.Printf("  Status:    %s (escalated=%t)\n", d.Status, d.Escalated)
	fmt.Printf("  Lead:      %s\n", d.Lead)
	fmt.Printf("  Panel:     %s\n", strings.Join(d.Participants, ", "))
	if d.Veto != nil {
		fmt.Printf("  Veto:      %s (%s) in %s at agreement %.2f\n",
			d.Veto.EvaluatorID, d.Veto.Role, d.Veto.Domain, d.Veto.AgreementLevel)
	}
	if d.Consensus != nil {
		fmt.Printf("  Consensus: %s at %.0f%% via %s\n",
			d.Consensus.Level, d.Consensus.SupportPercentage*100, d.Consensus.ResolutionMethod)
	}

	if len(rounds) == 0 {
		return nil
	}
	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ROUND\tLEVEL\tSUPPORT\tMETHOD\tMODIFIED")
	for i := range rounds {
		r := &rounds[i]
		_, _ = fmt.Fprintf(w, "%d\t%s\t%.0f%%\t%s\t%t\n",
			r.Round, r.Outcome.Level, r.Outcome.SupportPercentage*100,
			r.Outcome.ResolutionMethod, r.Outcome.Modified)
	}
	return w.Flush()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

// parseDomainPriorities parses "risk:5,finance:3" into a priority map.
func parseDomainPriorities(s string) (map[string]int, error) {
	if s == "" {
		return nil, nil
	}
	priorities := make(map[string]int)
	for _, pair := range strings.Split(s, ",") {
		domain, val, found := strings.Cut(strings.TrimSpace(pair), ":")
		if !found {
			return nil, fmt.Errorf("invalid domain pair %q, want domain:priority", pair)
		}
		p, err := strconv.Atoi(val)
		if err != nil {
			return nil, fmt.Errorf("invalid priority in %q: %w", pair, err)
		}
		priorities[domain] = p
	}
	return priorities, nil
}

func formatPriorities(priorities map[string]int) string {
	if len(priorities) == 0 {
		return "-"
	}
	pairs := make([]string, 0, len(priorities))
	for d, p := range priorities {
		pairs = append(pairs, fmt.Sprintf("%s:%d", d, p))
	}
	sort.Strings(pairs)
	return strings.Join(pairs, ",")
}
