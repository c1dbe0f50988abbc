package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/expensekeeper/internal/client/client"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

const categoryPrompt = "Category (food, transport, entertainment, utilities, shopping, health, other)"

var errUsage = errors.New("wrong arguments")

// Add prompts for the fields of a new expense. A blank date means today on
// the server's clock.
func (a *App) Add(ctx context.Context) error {
	rawAmount, err := getSimpleText(a.reader, "Amount", a.out)
	if err != nil {
		return err
	}
	amount, err := decimal.NewFromString(rawAmount)
	if err != nil {
		return fmt.Errorf("invalid amount %q", rawAmount)
	}

	category, err := getSimpleText(a.reader, categoryPrompt, a.out)
	if err != nil {
		return err
	}

	description, err := getSimpleText(a.reader, "Description (optional)", a.out)
	if err != nil {
		return err
	}

	rawDate, err := getSimpleText(a.reader, "Date YYYY-MM-DD (empty for today)", a.out)
	if err != nil {
		return err
	}
	var date *time.Time
	if rawDate != "" {
		d, err := time.Parse(dateLayout, rawDate)
		if err != nil {
			return fmt.Errorf("invalid date %q", rawDate)
		}
		date = &d
	}

	e, err := a.api.AddExpense(ctx, client.NewExpense{
		Amount:      amount,
		Category:    strings.ToLower(category),
		Description: description,
		Date:        date,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Added expense #%d\n", e.ID)
	return nil
}

// List takes optional skip and limit arguments.
func (a *App) List(ctx context.Context, args []string) error {
	skip, limit := 0, 100
	var err error
	if len(args) > 0 {
		if skip, err = strconv.Atoi(args[0]); err != nil {
			return fmt.Errorf("%w: usage: list [skip] [limit]", errUsage)
		}
	}
	if len(args) > 1 {
		if limit, err = strconv.Atoi(args[1]); err != nil {
			return fmt.Errorf("%w: usage: list [skip] [limit]", errUsage)
		}
	}

	list, err := a.api.ListExpenses(ctx, skip, limit)
	if err != nil {
		return err
	}
	return a.printExpenses(list)
}

func (a *App) Range(ctx context.Context, args []string) error {
	list, err := a.api.ExpensesBetween(ctx, rangeArgs(args))
	if err != nil {
		return err
	}
	return a.printExpenses(list)
}

func (a *App) Category(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: usage: category <name>", errUsage)
	}
	list, err := a.api.ExpensesByCategory(ctx, strings.ToLower(args[0]))
	if err != nil {
		return err
	}
	return a.printExpenses(list)
}

func (a *App) Show(ctx context.Context, args []string) error {
	id, err := idArg(args, "show")
	if err != nil {
		return err
	}
	e, err := a.api.GetExpense(ctx, id)
	if err != nil {
		return err
	}
	return a.printExpenses([]client.Expense{*e})
}

func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := idArg(args, "delete")
	if err != nil {
		return err
	}
	if err := a.api.DeleteExpense(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted expense #%d\n", id)
	return nil
}

func idArg(args []string, cmd string) (int64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%w: usage: %s <id>", errUsage, cmd)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id %q", errUsage, args[0])
	}
	return id, nil
}

// rangeArgs reads optional [from] [to] bounds; "-" leaves a bound open.
func rangeArgs(args []string) client.Range {
	var r client.Range
	if len(args) > 0 && args[0] != "-" {
		r.From = args[0]
	}
	if len(args) > 1 && args[1] != "-" {
		r.To = args[1]
	}
	return r
}

func (a *App) printExpenses(list []client.Expense) error {
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No expenses")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tCATEGORY\tAMOUNT\tDESCRIPTION")
	for _, e := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			e.ID, e.Date.Format(dateLayout), e.Category, e.Amount.StringFixed(2), e.Description)
	}
	return tw.Flush()
}
