// Command seed-season populates a database with a full advent season:
// 24 days of teas, their owners, a guesser roster, and (optionally) a
// simulated guess history. Intended for local development and demos.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/okian/advientea/internal/adapters/repository"
	"github.com/okian/advientea/internal/config"
	"github.com/okian/advientea/internal/domain/model"
	"github.com/okian/advientea/internal/domain/scoring"
	"github.com/okian/advientea/pkg/logger"
)

type seedTea struct {
	name        string
	kind        model.TeaKind
	ingredients []string
	owner       string
}

// season is the fixture calendar. Day i+1 gets teas[i].
var teas = []seedTea{
	{"Earl Grey", model.KindBlack, []string{"té negro", "bergamota"}, "maria"},
	{"Sencha", model.KindGreen, []string{"té verde"}, "carlos"},
	{"Rooibos Vainilla", model.KindRooibos, []string{"rooibos", "vainilla"}, "ana"},
	{"Pai Mu Tan", model.KindWhite, []string{"té blanco"}, "lucia"},
	{"Té Pakistaní", model.KindBlack, []string{"té negro", "cardamomo", "canela", "leche"}, "jorge"},
	{"Gunpowder", model.KindGreen, []string{"té verde"}, "elena"},
	{"Manzanilla", model.KindHerbal, []string{"manzanilla"}, "pablo"},
	{"Tie Guan Yin", model.KindOolong, []string{"té oolong"}, "sofia"},
	{"Pu-erh Mandarina", model.KindPuerh, []string{"té pu-erh", "mandarina"}, "diego"},
	{"Chai Especiado", model.KindBlack, []string{"té negro", "jengibre", "clavo", "pimienta"}, "carmen"},
	{"Jazmín Imperial", model.KindGreen, []string{"té verde", "jazmín"}, "raul"},
	{"Menta Poleo", model.KindHerbal, []string{"menta", "poleo"}, "irene"},
	{"Darjeeling", model.KindBlack, []string{"té negro"}, "victor"},
	{"Genmaicha", model.KindGreen, []string{"té verde", "arroz tostado"}, "alba"},
	{"Rooibos Navidad", model.KindRooibos, []string{"rooibos", "naranja", "canela"}, "hugo"},
	{"Silver Needle", model.KindWhite, []string{"té blanco"}, "nerea"},
	{"Lapsang Souchong", model.KindBlack, []string{"té negro ahumado"}, "mario"},
	{"Tila Alpina", model.KindHerbal, []string{"tila"}, "laura"},
	{"Da Hong Pao", model.KindOolong, []string{"té oolong"}, "oscar"},
	{"Pu-erh Añejo", model.KindPuerh, []string{"té pu-erh"}, "marta"},
	{"Matcha Ceremonial", model.KindGreen, []string{"matcha"}, "ivan"},
	{"Assam Dorado", model.KindBlack, []string{"té negro"}, "paula"},
	{"Hierbaluisa", model.KindHerbal, []string{"hierbaluisa"}, "adrian"},
	{"Té de Nochebuena", model.KindBlack, []string{"té negro", "naranja", "clavo"}, "claudia"},
}

var guessers = []string{"nico", "vera", "tomas", "julia", "andres", "rocio"}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "seed-season:", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	log := logger.Named("seed")

	ctx := context.Background()
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	store, err := repository.Open(ctx, cfg.DBPath, repository.WithLogger(log))
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = store.Close() }()

	owners := make(map[string]string, len(teas))
	for _, t := range teas {
		id, err := store.CreateUser(ctx, t.owner, "avatars/"+t.owner+".png")
		if err != nil {
			return fmt.Errorf("create owner %s: %w", t.owner, err)
		}
		owners[t.owner] = id
	}
	guesserIDs := make(map[string]string, len(guessers))
	for _, g := range guessers {
		id, err := store.CreateUser(ctx, g, "avatars/"+g+".png")
		if err != nil {
			return fmt.Errorf("create guesser %s: %w", g, err)
		}
		guesserIDs[g] = id
	}

	for i, t := range teas {
		day := i + 1
		tea := &model.TeaFacts{
			Name:        t.name,
			Kind:        t.kind,
			Ingredients: t.ingredients,
			OwnerName:   t.owner,
		}
		if err := store.CreateDay(ctx, day, cfg.SeasonYear, tea, owners[t.owner], ""); err != nil {
			return fmt.Errorf("create day %d: %w", day, err)
		}
	}
	log.Info(ctx, "season seeded",
		logger.Int("days", len(teas)),
		logger.Int("users", len(owners)+len(guesserIDs)),
	)

	if os.Getenv("ADVIENTEA_SEED_GUESSES") != "true" {
		return nil
	}
	return seedGuesses(ctx, store, cfg, guesserIDs)
}

// seedGuesses writes a plausible guess history for every past day of the
// season. Days are independent, so they are filled in parallel.
func seedGuesses(ctx context.Context, store *repository.SQLite, cfg *config.Config, guesserIDs map[string]string) error {
	loc := cfg.Location()
	scorer := scoring.New(
		scoring.WithLocation(loc),
		scoring.WithGuessWindow(cfg.WindowStartHour, cfg.WindowEndHour),
	)

	today := time.Now().In(loc)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)

	for i, t := range teas {
		day, tea := i+1, t
		target := time.Date(cfg.SeasonYear, time.December, day, 0, 0, 0, 0, loc)
		if !target.Before(today) {
			continue
		}
		g.Go(func() error {
			return seedDayGuesses(gctx, store, scorer, day, cfg.SeasonYear, tea, loc, guesserIDs)
		})
	}
	return g.Wait()
}

func seedDayGuesses(ctx context.Context, store *repository.SQLite, scorer *scoring.Scorer, day, year int, tea seedTea, loc *time.Location, guesserIDs map[string]string) error {
	rng := rand.New(rand.NewSource(int64(day)))

	for _, username := range guessers {
		// Each guesser submits between morning and evening. Roughly half
		// name the right tea, the rest pick a neighbour's.
		at := time.Date(year, time.December, day, 8+rng.Intn(12), rng.Intn(60), 0, 0, loc)
		guessed := tea
		if rng.Intn(2) == 0 {
			guessed = teas[rng.Intn(len(teas))]
		}

		input := model.GuessInput{
			TeaName:     &guessed.name,
			TeaKind:     &guessed.kind,
			Ingredients: guessed.ingredients,
			PersonName:  &guessed.owner,
		}
		truth := model.TeaFacts{
			Name:        tea.name,
			Kind:        tea.kind,
			Ingredients: tea.ingredients,
			OwnerName:   tea.owner,
		}

		scored := model.ScoredGuess{
			UserID:      guesserIDs[username],
			Day:         day,
			Year:        year,
			Points:      scorer.DailyScore(truth, input, at),
			CreatedAt:   at,
			TeaName:     guessed.name,
			TeaKind:     guessed.kind,
			Ingredients: guessed.ingredients,
			PersonName:  guessed.owner,
		}
		if _, err := store.AppendGuess(ctx, scored); err != nil {
			return fmt.Errorf("day %d guess for %s: %w", day, username, err)
		}
	}
	return nil
}
