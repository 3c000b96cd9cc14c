// cmd/bot/main.go
//
// Telegram quick-entry bot: add and review expenses from chat without
// opening the web client. Expenses are attributed to the account named by
// EXPENSE_BOT_USER.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"expense-tracker/internal/config"
	"expense-tracker/internal/domain"
	"expense-tracker/internal/storage"
	"expense-tracker/internal/storage/postgres"
	"expense-tracker/internal/summary"

	val "expense-tracker/internal/validator"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

// botStore is the slice of storage the bot commands need.
type botStore interface {
	CreateExpense(ctx context.Context, expense domain.Expense) (domain.Expense, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	RecentExpenses(ctx context.Context, limit int) ([]domain.RecentExpense, error)
	ExpenseFacts(ctx context.Context) ([]domain.ExpenseFact, error)
}

// quickEntry mirrors the subject and amount rules the API enforces, so an
// expense added over Telegram passes the same checks as one posted over HTTP.
type quickEntry struct {
	Subject string  `validate:"required,min=2,max=100"`
	Amount  float64 `validate:"required,gt=0"`
}

const helpText = "💸 *Expense tracker*\n\n" +
	"Commands:\n" +
	"`/add <amount> <category> <subject>` — record an expense\n" +
	"`/recent` — last five expenses\n" +
	"`/summary [year]` — totals for a year\n" +
	"`/years` — years with data"

func main() {
	_ = godotenv.Load()

	botToken := os.Getenv("TELEGRAM_BOT_TOKEN")
	if botToken == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN not set")
	}
	botUser := os.Getenv("EXPENSE_BOT_USER")
	if botUser == "" {
		log.Fatal("EXPENSE_BOT_USER not set")
	}

	cfg := config.MustLoad()
	db, err := pgxpool.New(context.Background(), cfg.DBConn)
	if err != nil {
		log.Fatal("Failed to connect to DB:", err)
	}
	defer db.Close()

	store := postgres.NewStorage(db)

	user, err := store.UserByUsername(context.Background(), botUser)
	if err != nil {
		log.Fatalf("Bot user %q not found: %v", botUser, err)
	}

	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		log.Panic(err)
	}

	log.Printf("Bot started: @%s", bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := bot.GetUpdatesChan(u)

	for update := range updates {
		if update.Message == nil {
			continue
		}

		chatID := update.Message.Chat.ID
		text := strings.TrimSpace(update.Message.Text)

		var msgText string
		var errHandle error

		switch {
		case text == "/start" || text == "/help":
			msgText = helpText

		case strings.HasPrefix(text, "/add "):
			msgText, errHandle = handleAdd(store, user.UserID, strings.TrimSpace(text[5:]), cfg.Location)

		case text == "/recent":
			msgText, errHandle = handleRecent(store)

		case text == "/summary" || strings.HasPrefix(text, "/summary "):
			msgText, errHandle = handleSummary(store, strings.TrimSpace(strings.TrimPrefix(text, "/summary")), cfg.Location)

		case text == "/years":
			msgText, errHandle = handleYears(store)

		default:
			msgText = "Unknown command. Send /help for the list."
		}

		if errHandle != nil {
			log.Printf("Command failed: %v", errHandle)
			msgText = "❌ Something went wrong, try again."
		}

		reply := tgbotapi.NewMessage(chatID, msgText)
		reply.ParseMode = tgbotapi.ModeMarkdown
		if _, err := bot.Send(reply); err != nil {
			log.Printf("Send failed: %v", err)
		}
	}
}

// handleAdd parses "<amount> <category> <subject...>" and inserts the
// expense dated today.
func handleAdd(store botStore, userID uuid.UUID, input string, loc *time.Location) (string, error) {
	parts := strings.Fields(input)
	if len(parts) < 3 {
		return "Usage: `/add <amount> <category> <subject>`", nil
	}

	amount, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return fmt.Sprintf("`%s` is not a valid amount", parts[0]), nil
	}

	category, err := categoryByName(store, parts[1])
	if err != nil {
		return fmt.Sprintf("Unknown category `%s`, check /help", parts[1]), nil
	}

	subject := strings.Join(parts[2:], " ")
	if err := val.Validate.Struct(quickEntry{Subject: subject, Amount: amount}); err != nil {
		return "Amount must be positive and the subject 2-100 characters.", nil
	}

	now := time.Now().In(loc)

	_, err = store.CreateExpense(context.Background(), domain.Expense{
		ExpenseID:   uuid.New(),
		UserID:      userID,
		CategoryID:  category.CategoryID,
		Subject:     subject,
		ExpenseDate: domain.NewDate(now.Year(), now.Month(), now.Day()),
		Amount:      amount,
		UpdatedAt:   now,
	})
	if err != nil {
		return "", fmt.Errorf("add expense: %w", err)
	}

	return fmt.Sprintf("✅ Saved %.2f for *%s* (%s)", amount, subject, category.Name), nil
}

func handleRecent(store botStore) (string, error) {
	recent, err := store.RecentExpenses(context.Background(), 5)
	if err != nil {
		return "", fmt.Errorf("recent expenses: %w", err)
	}
	if len(recent) == 0 {
		return "No expenses yet.", nil
	}

	var b strings.Builder
	b.WriteString("🧾 *Recent expenses*\n")
	for _, e := range recent {
		fmt.Fprintf(&b, "• %s — %.2f (%s)\n", e.Subject, e.Amount, e.CategoryName)
	}
	return b.String(), nil
}

func handleSummary(store botStore, yearArg string, loc *time.Location) (string, error) {
	facts, err := store.ExpenseFacts(context.Background())
	if err != nil {
		return "", fmt.Errorf("load facts: %w", err)
	}

	years := summary.AvailableYears(facts)
	if len(years) == 0 {
		return "No expenses yet.", nil
	}

	year := years[0]
	if yearArg != "" {
		y, err := strconv.Atoi(yearArg)
		if err != nil {
			return fmt.Sprintf("`%s` is not a valid year", yearArg), nil
		}
		year = y
	}

	s := summary.GeneralSummary(facts, year, time.Now().In(loc))
	return fmt.Sprintf("📊 *Summary %d*\nTotal: %.2f\nThis month: %.2f\nLast month: %.2f\nThis quarter: %.2f\nLast quarter: %.2f",
		year, s.TotalSpending, s.ThisMonth, s.LastMonth, s.ThisQuarter, s.LastQuarter), nil
}

func handleYears(store botStore) (string, error) {
	facts, err := store.ExpenseFacts(context.Background())
	if err != nil {
		return "", fmt.Errorf("load facts: %w", err)
	}

	years := summary.AvailableYears(facts)
	if len(years) == 0 {
		return "No expenses yet.", nil
	}

	parts := make([]string, len(years))
	for i, y := range years {
		parts[i] = strconv.Itoa(y)
	}
	return "📅 Years with data: " + strings.Join(parts, ", "), nil
}

func categoryByName(store botStore, name string) (domain.Category, error) {
	categories, err := store.ListCategories(context.Background())
	if err != nil {
		return domain.Category{}, err
	}
	for _, c := range categories {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return domain.Category{}, storage.ErrNotFound
}
