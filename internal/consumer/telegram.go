// Package consumer
package consumer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/outlay-app/outlay/internal/model"
	"github.com/outlay-app/outlay/internal/service"
)

const (
	startCmd  = "start"
	loginCmd  = "login"
	logoutCmd = "logout"
	listCmd   = "list"
	getCmd    = "get"
	addCmd    = "add"
	delCmd    = "del"
	reportCmd = "report"
)

const (
	usernameMinLength = 3
	usernameMaxLength = 15
	passwordMaxLength = 15
)

const commandTimeout = 10 * time.Second

const helpMessage = "Commands:\n" +
	"/login <username> <password>\n" +
	"/logout\n" +
	"/list\n" +
	"/get <id>\n" +
	"/add <name> <amount> [description]\n" +
	"/del <id>\n" +
	"/report"

const notLoggedInMessage = "You are not logged in. Send /login <username> <password>"

// Bot polls the telegram server every n seconds and maps chat commands
// onto the session manager and the expense cache. It only renders state
// the core exposes; every business rule lives below it.
type Bot struct {
	bot         *tgbotapi.BotAPI
	updatesChan tgbotapi.UpdatesChannel
	validator   *validator.Validate
	session     *service.Session
	expenses    *service.Expenses
	budget      decimal.Decimal
}

func NewBot(bot *tgbotapi.BotAPI, updatesChan tgbotapi.UpdatesChannel, validator *validator.Validate,
	session *service.Session, expenses *service.Expenses, budget decimal.Decimal) *Bot {
	return &Bot{
		bot:         bot,
		updatesChan: updatesChan,
		validator:   validator,
		session:     session,
		expenses:    expenses,
		budget:      budget,
	}
}

func (b *Bot) Consume(ctx context.Context) {
	logrus.Infof("telegram bot %s started consuming", b.bot.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			logrus.Infof("bot consumer stopped: %v", ctx.Err())
			return

		case update := <-b.updatesChan:
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}
			b.handleCommand(ctx, update.Message)
		}
	}
}

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	newCtx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	args := strings.Fields(message.CommandArguments())

	var err error
	switch message.Command() {
	case startCmd:
		err = b.sendMessage(message, helpMessage)
	case loginCmd:
		err = b.handleLogin(newCtx, message, args)
	case logoutCmd:
		err = b.handleLogout(newCtx, message)
	case listCmd:
		err = b.handleList(newCtx, message)
	case getCmd:
		err = b.handleGet(newCtx, message, args)
	case addCmd:
		err = b.handleAdd(newCtx, message, args)
	case delCmd:
		err = b.handleDelete(newCtx, message, args)
	case reportCmd:
		err = b.handleReport(newCtx, message)
	default:
		logrus.Infof("unknown command: %s", message.Text)
		return
	}
	if err != nil {
		logrus.Errorf("%s command error: %v", message.Command(), err)
	}
}

func (b *Bot) handleLogin(ctx context.Context, message *tgbotapi.Message, args []string) error {
	if len(args) != 2 {
		return b.sendMessage(message, "Send /login <username> <password>")
	}
	username, password := args[0], args[1]

	if !b.validate(username, fmt.Sprintf("min=%d,max=%d", usernameMinLength, usernameMaxLength)) {
		return b.sendMessage(message, fmt.Sprintf("Username must be between %d and %d characters", usernameMinLength, usernameMaxLength))
	}
	if !b.validate(password, fmt.Sprintf("max=%d", passwordMaxLength)) {
		return b.sendMessage(message, fmt.Sprintf("Password must be at most %d characters", passwordMaxLength))
	}

	if err := b.session.Login(ctx, username, password); err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return b.sendMessage(message, "Invalid username or password")
		}
		if sendErr := b.sendMessage(message, "Something went wrong, try again later"); sendErr != nil {
			return sendErr
		}
		return err
	}

	user := b.session.CurrentUser()
	logrus.Infof("user %s logged in from chat %d", user.Username, message.Chat.ID)
	return b.sendMessage(message, fmt.Sprintf("Welcome back, %s!", user.Username))
}

func (b *Bot) handleLogout(ctx context.Context, message *tgbotapi.Message) error {
	if err := b.session.Logout(ctx); err != nil {
		if sendErr := b.sendMessage(message, "Something went wrong, try again later"); sendErr != nil {
			return sendErr
		}
		return err
	}
	return b.sendMessage(message, "You are logged out")
}

func (b *Bot) handleList(ctx context.Context, message *tgbotapi.Message) error {
	user := b.session.CurrentUser()
	if user == nil {
		return b.sendMessage(message, notLoggedInMessage)
	}

	expenses, err := b.expenses.GetExpenses(ctx, user.ID)
	if err != nil {
		if sendErr := b.sendMessage(message, "Couldn't load your expenses, try again later"); sendErr != nil {
			return sendErr
		}
		return err
	}
	if len(expenses) == 0 {
		return b.sendMessage(message, "No expenses yet. Add one with /add")
	}

	var sb strings.Builder
	for i := range expenses {
		sb.WriteString(renderLine(&expenses[i]))
		sb.WriteString("\n")
	}
	return b.sendMessage(message, sb.String())
}

func (b *Bot) handleGet(ctx context.Context, message *tgbotapi.Message, args []string) error {
	user := b.session.CurrentUser()
	if user == nil {
		return b.sendMessage(message, notLoggedInMessage)
	}
	if len(args) != 1 {
		return b.sendMessage(message, "Send /get <id>")
	}

	expense, err := b.expenses.GetExpenseByID(ctx, args[0])
	if err != nil {
		if sendErr := b.sendMessage(message, fmt.Sprintf("Couldn't load expense %s", args[0])); sendErr != nil {
			return sendErr
		}
		return err
	}

	text := fmt.Sprintf("%s\n%s\nAmount: $%s\nCreated: %s", expense.Name, expense.Description,
		renderAmount(expense.Amount), expense.CreatedAt)
	if expense.Category != "" {
		text += "\nCategory: " + expense.Category
	}
	if expense.Note != "" {
		text += "\nNote: " + expense.Note
	}
	return b.sendMessage(message, text)
}

func (b *Bot) handleAdd(ctx context.Context, message *tgbotapi.Message, args []string) error {
	user := b.session.CurrentUser()
	if user == nil {
		return b.sendMessage(message, notLoggedInMessage)
	}
	if len(args) < 2 {
		return b.sendMessage(message, "Send /add <name> <amount> [description]")
	}

	draft := &model.ExpenseDraft{
		Name:        args[0],
		Amount:      args[1],
		Description: strings.Join(args[2:], " "),
	}
	if draft.Description == "" {
		draft.Description = draft.Name
	}

	expense, err := b.expenses.CreateExpense(ctx, user.ID, draft)
	if err != nil {
		if sendErr := b.sendMessage(message, fmt.Sprintf("Couldn't create the expense: %v", err)); sendErr != nil {
			return sendErr
		}
		return err
	}
	return b.sendMessage(message, fmt.Sprintf("Saved %s for $%s (id %s)", expense.Name, renderAmount(expense.Amount), expense.ID))
}

func (b *Bot) handleDelete(ctx context.Context, message *tgbotapi.Message, args []string) error {
	user := b.session.CurrentUser()
	if user == nil {
		return b.sendMessage(message, notLoggedInMessage)
	}
	if len(args) != 1 {
		return b.sendMessage(message, "Send /del <id>")
	}

	if err := b.expenses.DeleteExpense(ctx, user.ID, args[0]); err != nil {
		if sendErr := b.sendMessage(message, fmt.Sprintf("Couldn't delete expense %s", args[0])); sendErr != nil {
			return sendErr
		}
		return err
	}
	return b.sendMessage(message, fmt.Sprintf("Expense %s deleted", args[0]))
}

func (b *Bot) handleReport(ctx context.Context, message *tgbotapi.Message) error {
	user := b.session.CurrentUser()
	if user == nil {
		return b.sendMessage(message, notLoggedInMessage)
	}

	expenses, err := b.expenses.GetExpenses(ctx, user.ID)
	if err != nil {
		if sendErr := b.sendMessage(message, "Couldn't load your expenses, try again later"); sendErr != nil {
			return sendErr
		}
		return err
	}

	summary := service.Summarize(expenses, b.budget)

	status := "On Track"
	if summary.OverBudget {
		status = "Over Budget"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total spent: $%s of $%s (%s)\n", model.FormatAmount(summary.Total),
		model.FormatAmount(summary.Budget), status))
	if summary.TopCategory != "" {
		sb.WriteString("Top category: " + summary.TopCategory + "\n")
	}
	if len(summary.Recent) > 0 {
		sb.WriteString("Recent:\n")
		for i := range summary.Recent {
			sb.WriteString(renderLine(&summary.Recent[i]))
			sb.WriteString("\n")
		}
	}
	return b.sendMessage(message, sb.String())
}

func (b *Bot) sendMessage(message *tgbotapi.Message, text string) error {
	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ReplyToMessageID = message.MessageID

	_, err := b.bot.Send(msg)
	if err != nil {
		return fmt.Errorf("telegram bot couldn't send message: %v", err)
	}
	return nil
}

func (b *Bot) validate(value string, tags string) bool {
	err := b.validator.Var(value, tags)
	if err != nil {
		return false
	}
	return true
}

func renderLine(exp *model.Expense) string {
	return fmt.Sprintf("%s: %s $%s", exp.ID, exp.Name, renderAmount(exp.Amount))
}

// renderAmount reformats a transported amount with fixed precision,
// falling back to the raw string when it does not parse.
func renderAmount(raw string) string {
	amount, err := model.ParseAmount(raw)
	if err != nil {
		return raw
	}
	return model.FormatAmount(amount)
}
