package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/thornwatch/d20combat/internal/combat"
	"github.com/thornwatch/d20combat/internal/condition"
	"github.com/thornwatch/d20combat/internal/config"
	"github.com/thornwatch/d20combat/internal/dice"
	appErrors "github.com/thornwatch/d20combat/internal/errors"
	"github.com/thornwatch/d20combat/internal/repositories/combatlogs"
)

// runResult is the outcome of a single simulated encounter.
type runResult struct {
	sessionID string
	rounds    int
	outcome   *combat.Outcome
}

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	scenarioPath := flag.String("scenario", "scenarios/skirmish.yaml", "path to the encounter scenario")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	scn, err := LoadScenario(*scenarioPath)
	if err != nil {
		logger.Fatal("failed to load scenario", zap.Error(err))
	}

	registry, err := condition.NewRegistry()
	if err != nil {
		logger.Fatal("failed to load condition table", zap.Error(err))
	}

	// Persist logs to redis when configured; otherwise drop them after the
	// summary.
	var repo combatlogs.Repository
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		pingErr := client.Ping(ctx).Err()
		cancel()
		if pingErr != nil {
			logger.Warn("redis unreachable, logs will not be persisted", zap.Error(pingErr))
		} else {
			repo = combatlogs.NewRedis(client)
			logger.Info("persisting combat logs to redis", zap.String("addr", cfg.Redis.Addr))
		}
	}

	logger.Info("starting simulation",
		zap.String("scenario", scn.Name),
		zap.Int("runs", cfg.Simulator.Runs),
		zap.Int("parallel", cfg.Simulator.Parallel),
		zap.Int64("seed", cfg.Simulator.Seed))

	results := make([]runResult, cfg.Simulator.Runs)
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(cfg.Simulator.Parallel)

	for i := 0; i < cfg.Simulator.Runs; i++ {
		run := i
		g.Go(func() error {
			result, err := simulate(ctx, cfg, logger, registry, scn, repo, run)
			if err != nil {
				return err
			}
			results[run] = *result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Fatal("simulation failed", zap.Error(err))
	}

	report(logger, results)
}

// simulate runs one full encounter: every combatant attacks the first
// standing enemy on its turn until a side wins or the round cap is hit.
func simulate(ctx context.Context, cfg *config.Config, logger *zap.Logger, registry *condition.Registry, scn *Scenario, repo combatlogs.Repository, run int) (*runResult, error) {
	var roller dice.Roller
	if cfg.Simulator.Seed != 0 {
		roller = dice.NewSeededRoller(cfg.Simulator.Seed + int64(run))
	} else {
		roller = dice.NewRandomRoller()
	}

	session, err := combat.NewSession(&combat.SessionConfig{
		Roller:   roller,
		Registry: registry,
		Logger:   logger,
	})
	if err != nil {
		return nil, err
	}

	weapons := make(map[string]*combat.Weapon) // combatant id -> weapon
	for _, sc := range scn.Combatants {
		c, err := session.AddCombatant(sc.StatSheet)
		if err != nil {
			return nil, appErrors.Wrapf(err, "failed to add combatant %q", sc.Name)
		}
		weapons[c.ID] = sc.Weapon
	}

	if err := session.Start(); err != nil {
		return nil, err
	}

	for session.State() == combat.StateActive && session.Round() <= cfg.Simulator.MaxRound {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		actor, err := session.Current()
		if err != nil {
			return nil, err
		}

		if targetID := pickTarget(session, actor); targetID != "" {
			_, err := session.ResolveAction(combat.Action{
				Kind:     combat.ActionAttack,
				ActorID:  actor.ID,
				TargetID: targetID,
				Weapon:   weapons[actor.ID],
			})
			switch {
			case err == nil:
			case appErrors.IsCombatEnded(err):
			case appErrors.IsActionNotAllowed(err):
				// stunned or otherwise locked out; the turn just passes
			default:
				return nil, err
			}
		}

		if session.State() != combat.StateActive {
			break
		}
		if _, err := session.Advance(); err != nil {
			if appErrors.IsCombatEnded(err) {
				break
			}
			return nil, err
		}
	}

	result := &runResult{
		sessionID: session.ID,
		rounds:    session.Round(),
		outcome:   session.Outcome(),
	}

	if repo != nil {
		if err := repo.Append(ctx, session.ID, session.Log()...); err != nil {
			return nil, err
		}
		if result.outcome != nil {
			if err := repo.SetOutcome(ctx, session.ID, result.outcome); err != nil {
				return nil, err
			}
		}
	}

	return result, nil
}

// pickTarget returns the first standing enemy in turn order, or "" when no
// enemy remains.
func pickTarget(session *combat.Session, actor *combat.Combatant) string {
	for _, id := range session.TurnOrder() {
		c, err := session.Combatant(id)
		if err != nil {
			continue
		}
		if c.Side != actor.Side && !c.IsDefeated() {
			return c.ID
		}
	}
	return ""
}

// report logs the aggregate outcome tally.
func report(logger *zap.Logger, results []runResult) {
	wins := make(map[string]int)
	draws := 0
	undecided := 0
	totalRounds := 0

	for _, r := range results {
		totalRounds += r.rounds
		switch {
		case r.outcome == nil:
			undecided++
		case r.outcome.Kind == combat.OutcomeDraw:
			draws++
		default:
			wins[r.outcome.Side]++
		}
	}

	fields := []zap.Field{
		zap.Int("runs", len(results)),
		zap.Int("draws", draws),
		zap.Int("undecided", undecided),
	}
	if len(results) > 0 {
		fields = append(fields, zap.Float64("avg_rounds", float64(totalRounds)/float64(len(results))))
	}
	for side, count := range wins {
		fields = append(fields, zap.Int("wins_"+side, count))
	}

	logger.Info("simulation complete", fields...)
}
