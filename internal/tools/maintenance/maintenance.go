// Package maintenance inspects and repairs stored player morality.
package maintenance

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/louisbranch/karma.space/internal/platform/cmd"
	"github.com/louisbranch/karma.space/internal/services/karma/app"
	"github.com/louisbranch/karma.space/internal/services/karma/domain/morality"
	"github.com/louisbranch/karma.space/internal/services/karma/replay"
)

// Report modes.
const (
	modeSummary = "summary"
	modeVerify  = "verify"
	modeRebuild = "rebuild"
	modeScript  = "script"
)

// maxScriptLine bounds one JSONL script line.
const maxScriptLine = 1 << 20

// Config holds maintenance command configuration.
type Config struct {
	app.Config
	Timeout time.Duration `env:"KARMA_SPACE_MAINTENANCE_TIMEOUT" envDefault:"1m"`

	PlayerID   string
	PlayerIDs  string
	UntilSeq   int
	Summary    bool
	Verify     bool
	Rebuild    bool
	Script     string
	JSONOutput bool
}

// ParseConfig loads env defaults and then parses flags into a Config. Flags
// left unset keep the env value.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	fs.StringVar(&cfg.Store, "store", "", "store backend (memory|sqlite|postgres; default: KARMA_SPACE_STORE or sqlite)")
	fs.StringVar(&cfg.SQLitePath, "sqlite-path", "", "path to the sqlite database (default: KARMA_SPACE_SQLITE_PATH or data/karma.sqlite)")
	fs.StringVar(&cfg.PostgresDSN, "postgres-dsn", "", "postgres connection string (default: KARMA_SPACE_POSTGRES_DSN)")
	fs.StringVar(&cfg.RegistryPath, "registry", "", "path to a JSON faction/companion registry (default: built-in)")
	fs.StringVar(&cfg.PlayerID, "player", "", "player ID to inspect")
	fs.StringVar(&cfg.PlayerIDs, "players", "", "comma-separated player IDs to inspect")
	fs.IntVar(&cfg.UntilSeq, "until-seq", 0, "summarize the state replayed up to this action (0 = stored state)")
	fs.BoolVar(&cfg.Summary, "summary", false, "print the morality summary (default mode)")
	fs.BoolVar(&cfg.Verify, "verify", false, "replay the action journal and compare it with the stored state")
	fs.BoolVar(&cfg.Rebuild, "rebuild", false, "replay the action journal and overwrite the stored state")
	fs.StringVar(&cfg.Script, "script", "", "apply actions from a JSONL file of {\"player_id\",\"input\"} lines")
	fs.BoolVar(&cfg.JSONOutput, "json", false, "output JSON reports")
	fs.DurationVar(&cfg.Timeout, "timeout", 0, "overall timeout (default: KARMA_SPACE_MAINTENANCE_TIMEOUT or 1m)")
	if err := cmd.ParseConfigFromArgs(&cfg, fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run executes the maintenance command.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	if _, err := resolveMode(cfg); err != nil {
		return err
	}

	svc, err := app.NewServiceFromConfig(ctx, cfg.Config, app.WithLogger(log.New(errOut, "", 0)))
	if err != nil {
		return err
	}
	return runWithService(ctx, cfg, svc, out, errOut)
}

// runWithService holds the command logic and closes svc on return.
func runWithService(ctx context.Context, cfg Config, svc *app.Service, out io.Writer, errOut io.Writer) error {
	defer func() {
		if err := svc.Close(); err != nil {
			fmt.Fprintf(errOut, "Error: close store: %v\n", err)
		}
	}()

	mode, err := resolveMode(cfg)
	if err != nil {
		return err
	}
	if mode == modeScript {
		return runScript(ctx, svc, cfg.Script, cfg.JSONOutput, out, errOut)
	}

	ids, err := resolvePlayerIDs(cfg.PlayerID, cfg.PlayerIDs)
	if err != nil {
		return err
	}
	failed := false
	for _, id := range ids {
		result := runPlayer(ctx, svc, id, mode, cfg.UntilSeq)
		if cfg.JSONOutput {
			outputJSON(out, errOut, result)
		} else {
			prefix := ""
			if len(ids) > 1 {
				prefix = fmt.Sprintf("[%s] ", id)
			}
			printResult(out, errOut, result, prefix)
		}
		if result.ExitCode != 0 {
			failed = true
		}
	}
	if failed {
		return errors.New("maintenance failed")
	}
	return nil
}

func resolveMode(cfg Config) (string, error) {
	var modes []string
	if cfg.Summary {
		modes = append(modes, modeSummary)
	}
	if cfg.Verify {
		modes = append(modes, modeVerify)
	}
	if cfg.Rebuild {
		modes = append(modes, modeRebuild)
	}
	if strings.TrimSpace(cfg.Script) != "" {
		modes = append(modes, modeScript)
	}
	if len(modes) > 1 {
		return "", fmt.Errorf("-%s cannot be combined with -%s", modes[0], modes[1])
	}
	if cfg.UntilSeq < 0 {
		return "", errors.New("-until-seq must be >= 0")
	}
	mode := modeSummary
	if len(modes) == 1 {
		mode = modes[0]
	}
	if cfg.UntilSeq > 0 && mode != modeSummary {
		return "", fmt.Errorf("-until-seq only applies to -summary, not -%s", mode)
	}
	if mode == modeScript && (cfg.PlayerID != "" || cfg.PlayerIDs != "") {
		return "", errors.New("-script reads player ids from the file; drop -player and -players")
	}
	return mode, nil
}

func resolvePlayerIDs(singleID, list string) ([]string, error) {
	if singleID == "" && list == "" {
		return nil, fmt.Errorf("-player or -players is required")
	}
	if singleID != "" && list != "" {
		return nil, fmt.Errorf("-player cannot be combined with -players")
	}
	if singleID != "" {
		return []string{singleID}, nil
	}
	ids := splitCSV(list)
	if len(ids) == 0 {
		return nil, fmt.Errorf("-players must contain at least one player id")
	}
	return ids, nil
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	output := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		output = append(output, trimmed)
	}
	return output
}

type runResult struct {
	PlayerID string          `json:"player_id"`
	Mode     string          `json:"mode"`
	Report   json.RawMessage `json:"report,omitempty"`
	Error    string          `json:"error,omitempty"`
	ExitCode int             `json:"-"`
}

type rebuildReport struct {
	Events     int                `json:"events"`
	Alignment  morality.Alignment `json:"alignment"`
	TotalKarma int                `json:"total_karma"`
}

func runPlayer(ctx context.Context, svc *app.Service, playerID, mode string, untilSeq int) runResult {
	result := runResult{PlayerID: playerID, Mode: mode}
	var report any
	switch mode {
	case modeVerify:
		v, err := replay.Verify(ctx, svc.Store(), svc.Engine(), playerID)
		if err != nil {
			return result.fail("verify: %v", err)
		}
		if !v.Match {
			result.ExitCode = 1
		}
		report = v
	case modeRebuild:
		m, err := replay.Rebuild(ctx, svc.Store(), svc.Engine(), playerID)
		if err != nil {
			return result.fail("rebuild: %v", err)
		}
		report = rebuildReport{Events: len(m.KarmaHistory), Alignment: m.Alignment, TotalKarma: m.TotalKarma}
	default:
		summary, err := summarize(ctx, svc, playerID, untilSeq)
		if err != nil {
			return result.fail("summary: %v", err)
		}
		report = summary
	}
	payload, err := json.Marshal(report)
	if err != nil {
		return result.fail("encode report: %v", err)
	}
	result.Report = payload
	return result
}

func summarize(ctx context.Context, svc *app.Service, playerID string, untilSeq int) (morality.MoralitySummary, error) {
	if untilSeq == 0 {
		return svc.MoralitySummary(ctx, playerID)
	}
	res, err := replay.Replay(ctx, svc.Store(), svc.Engine(), playerID, replay.Options{UntilSeq: untilSeq})
	if err != nil {
		return morality.MoralitySummary{}, err
	}
	return morality.Summarize(res.State), nil
}

func (r runResult) fail(format string, args ...any) runResult {
	r.Error = fmt.Sprintf(format, args...)
	r.ExitCode = 1
	return r
}

func outputJSON(out io.Writer, errOut io.Writer, result any) {
	encoded, err := json.Marshal(result)
	if err != nil {
		fmt.Fprintf(errOut, "Error: encode report: %v\n", err)
		return
	}
	fmt.Fprintln(out, string(encoded))
}

func printResult(out io.Writer, errOut io.Writer, result runResult, prefix string) {
	if result.Error != "" {
		fmt.Fprintf(errOut, "%sError: %s\n", prefix, result.Error)
	}
	if len(result.Report) == 0 {
		return
	}
	switch result.Mode {
	case modeVerify:
		var v replay.Verification
		if err := json.Unmarshal(result.Report, &v); err != nil {
			fmt.Fprintf(errOut, "%sError: decode report: %v\n", prefix, err)
			return
		}
		if v.Match {
			fmt.Fprintf(out, "%sVerified player %s: %d events match the stored state (karma %d)\n", prefix, v.PlayerID, v.Events, v.StoredKarma)
			return
		}
		fmt.Fprintf(out, "%sMismatch for player %s: stored karma %d, replayed %d, first divergence at event %d\n", prefix, v.PlayerID, v.StoredKarma, v.ReplayedKarma, v.FirstDivergence)
	case modeRebuild:
		var r rebuildReport
		if err := json.Unmarshal(result.Report, &r); err != nil {
			fmt.Fprintf(errOut, "%sError: decode report: %v\n", prefix, err)
			return
		}
		fmt.Fprintf(out, "%sRebuilt player %s from %d events: %s, karma %d\n", prefix, result.PlayerID, r.Events, r.Alignment, r.TotalKarma)
	default:
		var s morality.MoralitySummary
		if err := json.Unmarshal(result.Report, &s); err != nil {
			fmt.Fprintf(errOut, "%sError: decode report: %v\n", prefix, err)
			return
		}
		printSummary(out, s, prefix)
	}
}

func printSummary(out io.Writer, s morality.MoralitySummary, prefix string) {
	fmt.Fprintf(out, "%s%s, %s (%s)\n", prefix, s.PlayerID, s.Title, s.AlignmentName)
	fmt.Fprintf(out, "%sAxes: good/evil %d, lawful/chaotic %d, stability %.2f\n", prefix, s.GoodEvilAxis, s.LawfulChaoticAxis, s.Stability)
	fmt.Fprintf(out, "%sKarma: total %d, recent %d; corruption %d, redemption %d, infamy %d\n", prefix, s.TotalKarma, s.RecentKarma, s.CorruptionLevel, s.RedemptionPoints, s.InfamyLevel)
	for _, group := range morality.Groups() {
		standing, ok := s.Reputation[group]
		if !ok {
			continue
		}
		fmt.Fprintf(out, "%sReputation %s: %d (%s)\n", prefix, group, standing.Score, standing.Level)
	}
	fmt.Fprintf(out, "%sEvents: %d, alignment shifts: %d\n", prefix, s.EventCount, s.AlignmentShifts)
	if len(s.StoryFlags) > 0 {
		fmt.Fprintf(out, "%sFlags: %s\n", prefix, strings.Join(s.StoryFlags, ", "))
	}
}

// scriptLine is one action of a JSONL script.
type scriptLine struct {
	PlayerID string         `json:"player_id"`
	Input    morality.Input `json:"input"`
}

type scriptResult struct {
	Line      int                `json:"line"`
	PlayerID  string             `json:"player_id"`
	EventID   string             `json:"event_id"`
	Seq       int                `json:"seq"`
	Magnitude int                `json:"magnitude"`
	Alignment morality.Alignment `json:"alignment"`
}

// runScript applies every line of path in order and stops at the first
// failure. Blank lines and lines starting with # are skipped.
func runScript(ctx context.Context, svc *app.Service, path string, jsonOutput bool, out io.Writer, errOut io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open script: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxScriptLine)
	applied := 0
	for lineNo := 1; scanner.Scan(); lineNo++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		var line scriptLine
		if err := json.Unmarshal([]byte(text), &line); err != nil {
			return fmt.Errorf("script line %d: %w", lineNo, err)
		}
		evt, err := svc.RecordAction(ctx, line.PlayerID, line.Input)
		if err != nil {
			return fmt.Errorf("script line %d: %w", lineNo, err)
		}
		m, err := svc.Morality(ctx, line.PlayerID)
		if err != nil {
			return fmt.Errorf("script line %d: %w", lineNo, err)
		}
		result := scriptResult{
			Line:      lineNo,
			PlayerID:  m.PlayerID,
			EventID:   evt.ID,
			Seq:       evt.Seq,
			Magnitude: evt.Magnitude,
			Alignment: m.Alignment,
		}
		if jsonOutput {
			outputJSON(out, errOut, result)
		} else {
			fmt.Fprintf(out, "line %d: %s %s %+d -> %s\n", lineNo, result.PlayerID, evt.Action, evt.Magnitude, result.Alignment)
		}
		applied++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	if !jsonOutput {
		fmt.Fprintf(out, "Applied %d actions\n", applied)
	}
	return nil
}
