package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"

	"evently/internal/app"
	"evently/internal/events"
	"evently/internal/shared/config"
	"evently/pkg/logger"
)

type Seeder struct {
	app *app.App
	out io.Writer
	now func() time.Time
}

func main() {
	_ = godotenv.Load()

	email := pflag.String("email", os.Getenv("SEED_EMAIL"), "organizer account email")
	password := pflag.String("password", os.Getenv("SEED_PASSWORD"), "organizer account password")
	publish := pflag.Bool("publish", true, "publish events after creating them")
	feature := pflag.Int("feature", 2, "mark the first N events as featured")
	pflag.Parse()

	fmt.Println("🌱 Starting Evently Seeder...")

	cfg := config.Load()
	cfg.Session.Store = config.SessionStoreMemory

	ctx := context.Background()
	a, err := app.New(ctx, cfg, app.Options{Logger: logger.NewWithOutput(os.Stderr, cfg.LogLevel, false)})
	if err != nil {
		log.Fatalf("Failed to initialize client: %v", err)
	}
	defer a.Close()

	seeder := &Seeder{app: a, out: os.Stdout, now: time.Now}

	fmt.Printf("\n🔐 Signing in as %s...\n", *email)
	if _, err := a.Session.Login(ctx, *email, *password); err != nil {
		log.Fatalf("Failed to sign in: %v", err)
	}

	fmt.Println("\n🌱 Seeding events...")
	if _, err := seeder.SeedAll(ctx, *publish, *feature); err != nil {
		log.Fatalf("Failed to seed events: %v", err)
	}

	fmt.Println("\n🎉 Seeding completed! The backend is ready for testing.")
}

// seedEvent is one demo event. Each tier is priced at base times its multiplier.
type seedEvent struct {
	name        string
	description string
	category    string
	tags        string
	venue       string
	city        string
	basePrice   int64
	daysFromNow int
	tiers       []seedTier
}

type seedTier struct {
	name       string
	multiplier string
	quantity   int
}

var seedEvents = []seedEvent{
	{
		name:        "Tech Conference",
		description: "Annual technology conference featuring the latest innovations and industry leaders.",
		category:    "Technology",
		tags:        "Technology, Business",
		venue:       "Tech Hub Convention Center",
		city:        "Bengaluru",
		basePrice:   1500,
		daysFromNow: 30,
		tiers:       []seedTier{{"VIP", "2.0", 50}, {"General", "1.0", 400}},
	},
	{
		name:        "Classical Music Evening",
		description: "An elegant evening of classical music performed by renowned musicians.",
		category:    "Music",
		tags:        "Music, Arts",
		venue:       "Grand Opera House",
		city:        "Mumbai",
		basePrice:   800,
		daysFromNow: 45,
		tiers:       []seedTier{{"Premium", "1.8", 80}, {"Standard", "1.0", 220}},
	},
	{
		name:        "Startup Pitch Night",
		description: "Watch promising startups pitch their ideas to investors and industry experts.",
		category:    "Business",
		tags:        "Technology, Business",
		venue:       "Innovation Center",
		city:        "Pune",
		basePrice:   500,
		daysFromNow: 15,
		tiers:       []seedTier{{"VIP", "1.5", 30}, {"General", "1.0", 150}},
	},
	{
		name:        "Food & Wine Festival",
		description: "A delightful festival celebrating local cuisine and fine wines.",
		category:    "Food",
		tags:        "Food",
		venue:       "Central Park Pavilion",
		city:        "Goa",
		basePrice:   1200,
		daysFromNow: 60,
		tiers:       []seedTier{{"Premium", "1.5", 100}, {"Standard", "1.0", 500}},
	},
	{
		name:        "Art Gallery Opening",
		description: "Opening night of contemporary art exhibition featuring local and international artists.",
		category:    "Arts",
		tags:        "Arts",
		venue:       "Modern Art Museum",
		city:        "Delhi",
		basePrice:   600,
		daysFromNow: 25,
		tiers:       []seedTier{{"Premium", "1.3", 40}, {"Standard", "1.0", 160}},
	},
	{
		name:        "Sports Analytics Summit",
		description: "Conference on the future of sports analytics and data-driven decision making.",
		category:    "Sports",
		tags:        "Sports, Technology, Business",
		venue:       "Sports Complex Conference Room",
		city:        "Hyderabad",
		basePrice:   2000,
		daysFromNow: 90,
		tiers:       []seedTier{{"VIP", "2.5", 25}, {"General", "1.0", 200}},
	},
}

// SeedAll creates every demo event through the wizard, then publishes and
// features them as asked
func (s *Seeder) SeedAll(ctx context.Context, publish bool, featured int) ([]string, error) {
	var ids []string
	for i, data := range seedEvents {
		event, err := s.SeedEvent(ctx, data)
		if err != nil {
			return ids, fmt.Errorf("failed to create event %s: %w", data.name, err)
		}
		ids = append(ids, event.ID)
		fmt.Fprintf(s.out, "    ✅ Created event: %s (%s)\n", event.Name, event.ID)

		if publish {
			if _, err := s.app.Events.Publish(ctx, event.ID); err != nil {
				return ids, fmt.Errorf("failed to publish event %s: %w", data.name, err)
			}
			fmt.Fprintf(s.out, "    📣 Published: %s\n", event.Name)
		}
		if i < featured {
			if _, err := s.app.Events.ToggleFeatured(ctx, event.ID); err != nil {
				return ids, fmt.Errorf("failed to feature event %s: %w", data.name, err)
			}
			fmt.Fprintf(s.out, "    ⭐ Featured: %s\n", event.Name)
		}
	}
	return ids, nil
}

// SeedEvent fills the create-event wizard and submits it
func (s *Seeder) SeedEvent(ctx context.Context, data seedEvent) (*events.Event, error) {
	start := s.now().AddDate(0, 0, data.daysFromNow).Truncate(24 * time.Hour).Add(19 * time.Hour)
	saleEnd := start.Add(-time.Hour)

	wizard := events.NewWizard(s.app.Events)
	*wizard.Form() = events.EventForm{
		Name:        data.name,
		Description: data.description,
		Category:    data.category,
		Tags:        data.tags,
		EventDate:   start.Format("2006-01-02T15:04"),
		EndDate:     start.Add(3 * time.Hour).Format("2006-01-02T15:04"),
		Venue:       data.venue,
		Address:     "1 " + data.venue,
		City:        data.city,
		State:       data.city,
		Country:     "India",
	}
	for _, tier := range data.tiers {
		multiplier, err := decimal.NewFromString(tier.multiplier)
		if err != nil {
			return nil, fmt.Errorf("tier %s: %w", tier.name, err)
		}
		wizard.AddTicketType(events.TicketTypeForm{
			Name:          tier.name,
			Price:         decimal.NewFromInt(data.basePrice).Mul(multiplier).StringFixed(2),
			TotalQuantity: fmt.Sprint(tier.quantity),
			SaleEndDate:   saleEnd.Format("2006-01-02T15:04"),
		})
	}
	return wizard.Submit(ctx)
}
