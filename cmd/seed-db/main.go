// Command seed-db loads catalog products from a JSON file, seeds a set of
// promo codes, and provisions a staff account with an access token.
package main

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/verbstore/backoffice/internal/domain/colleague"
	"github.com/verbstore/backoffice/internal/domain/product"
	"github.com/verbstore/backoffice/internal/domain/promo"
	"github.com/verbstore/backoffice/internal/repository"
)

type productJSON struct {
	Name         string          `json:"name"`
	Type         string          `json:"type"`
	Grade        string          `json:"grade"`
	Themes       []string        `json:"themes"`
	Colors       []string        `json:"colors"`
	FrameTypes   []string        `json:"frame_types"`
	Weight       decimal.Decimal `json:"weight"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Qty          int             `json:"qty"`
	Description  string          `json:"description"`
	ReturnPolicy string          `json:"return_policy"`
	Discount     decimal.Decimal `json:"discount"`
}

func main() {
	var (
		databaseURL   string
		productsFile  string
		staffEmail    string
		staffPassword string
		staffToken    string
		tokenPepper   string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&productsFile, "products-file", "db/seed/products.json", "path to products JSON file")
	flag.StringVar(&staffEmail, "staff-email", "", "staff account email to seed (or BACKOFFICE_SEED_EMAIL env)")
	flag.StringVar(&staffPassword, "staff-password", "", "staff account password (or BACKOFFICE_SEED_PASSWORD env)")
	flag.StringVar(&staffToken, "staff-token", "", "access token to seed for the staff account (or BACKOFFICE_SEED_TOKEN env)")
	flag.StringVar(&tokenPepper, "token-pepper", "", "HMAC pepper for token hashing (or BACKOFFICE_TOKEN_PEPPER env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if staffEmail == "" {
		staffEmail = os.Getenv("BACKOFFICE_SEED_EMAIL")
	}
	if staffPassword == "" {
		staffPassword = os.Getenv("BACKOFFICE_SEED_PASSWORD")
	}
	if staffToken == "" {
		staffToken = os.Getenv("BACKOFFICE_SEED_TOKEN")
	}
	if tokenPepper == "" {
		tokenPepper = os.Getenv("BACKOFFICE_TOKEN_PEPPER")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, productsFile, staffEmail, staffPassword, staffToken, tokenPepper); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, productsFile, staffEmail, staffPassword, staffToken, pepper string) error {
	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedProducts(ctx, repository.NewProductRepository(pool), productsFile); err != nil {
		return errors.Wrap(err, "seed products")
	}

	if err := seedPromos(ctx, repository.NewPromoRepository(pool)); err != nil {
		return errors.Wrap(err, "seed promo codes")
	}

	if staffEmail != "" {
		colleagues := repository.NewColleagueRepository(pool)
		tokens := repository.NewTokenRepository(pool)
		if err := seedStaff(ctx, colleagues, tokens, staffEmail, staffPassword, staffToken, pepper); err != nil {
			return errors.Wrap(err, "seed staff account")
		}
	}

	return nil
}

func seedProducts(ctx context.Context, repo *repository.ProductRepository, productsFile string) error {
	slog.Info("reading products file", slog.String("path", productsFile))

	data, err := os.ReadFile(productsFile)
	if err != nil {
		return errors.Wrap(err, "read products file")
	}

	var products []productJSON
	if err := json.Unmarshal(data, &products); err != nil {
		return errors.Wrap(err, "parse products JSON")
	}

	slog.Info("creating products", slog.Int("count", len(products)))

	for _, p := range products {
		created, err := repo.Create(ctx, product.CreateParams{
			Name:         p.Name,
			Type:         p.Type,
			Grade:        p.Grade,
			Themes:       p.Themes,
			Colors:       p.Colors,
			FrameTypes:   p.FrameTypes,
			Weight:       p.Weight,
			UnitPrice:    p.UnitPrice,
			Qty:          p.Qty,
			Description:  p.Description,
			ReturnPolicy: p.ReturnPolicy,
			Discount:     p.Discount,
		})
		if err != nil {
			return errors.Wrapf(err, "create product %q", p.Name)
		}

		slog.Info("created product", slog.String("id", created.ID), slog.String("name", created.Name))
	}

	return nil
}

func seedPromos(ctx context.Context, repo *repository.PromoRepository) error {
	slog.Info("seeding promo codes")

	codes := []promo.Code{
		{
			ID:     uuid.New().String(),
			Code:   "WELCOME5",
			Value:  decimal.NewFromInt(5),
			Status: promo.StatusValid,
		},
		{
			ID:              uuid.New().String(),
			Code:            "SPRING10",
			Value:           decimal.NewFromInt(10),
			ValuePercentage: decimal.NewFromInt(10),
			Status:          promo.StatusValid,
		},
	}

	for i := range codes {
		if err := repo.Upsert(ctx, &codes[i]); err != nil {
			return errors.Wrapf(err, "upsert promo code %s", codes[i].Code)
		}

		slog.Info("upserted promo code", slog.String("code", codes[i].Code))
	}

	return nil
}

func seedStaff(
	ctx context.Context,
	colleagues *repository.ColleagueRepository,
	tokens *repository.TokenRepository,
	email, password, token, pepper string,
) error {
	slog.Info("seeding staff account", slog.String("email", email))

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "hash password")
	}

	c := &colleague.Colleague{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		IsActive:     true,
		IsStaff:      true,
	}
	switch err := colleagues.Create(ctx, c); {
	case err == nil:
	case errors.Is(err, colleague.ErrEmailTaken):
		existing, err := colleagues.GetByEmail(ctx, email)
		if err != nil {
			return errors.Wrap(err, "get existing staff account")
		}
		c = existing
		slog.Info("staff account already exists", slog.String("id", c.ID))
	default:
		return errors.Wrap(err, "create staff account")
	}

	if token == "" {
		return nil
	}

	mac := hmac.New(sha256.New, []byte(pepper))
	mac.Write([]byte(token))
	tokenHash := hex.EncodeToString(mac.Sum(nil))

	if err := tokens.Create(ctx, &colleague.TokenInfo{
		ID:          uuid.New().String(),
		ColleagueID: c.ID,
		TokenHash:   tokenHash,
		Name:        "Seeded staff token",
		Scopes:      []string{"staff"},
	}); err != nil {
		return errors.Wrap(err, "create staff token")
	}

	slog.Info("seeded staff token", slog.String("colleague_id", c.ID))
	return nil
}
