package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"gymease-service/internal/apiclient"
	"gymease-service/internal/domain/promo"
	"gymease-service/internal/domain/transaction"
)

var errUsage = errors.New("usage")

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "login":
		return a.login(ctx, args)
	case "promos":
		return a.promos(ctx, args)
	case "preview":
		return a.preview(ctx, args)
	case "toggle":
		return a.toggle(ctx, args)
	case "stats":
		return a.stats(ctx)
	case "confirm":
		return a.confirm(ctx, args, a.client.ConfirmPayment)
	case "check":
		return a.confirm(ctx, args, a.client.CheckPayment)
	default:
		return errUsage
	}
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	username := fs.String("u", "", "username")
	password := fs.String("p", "", "password")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if *username == "" || *password == "" {
		return errUsage
	}

	resp, err := a.client.Login(ctx, a.sess, *username, *password)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, resp.Token)
	return nil
}

// promos lists promos filtered locally by search text and resolved status.
func (a *app) promos(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("promos", flag.ContinueOnError)
	search := fs.String("search", "", "match name, id_promo or package name")
	status := fs.String("status", "all", "all|active|scheduled|expired|inactive")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	statusFilter, err := promo.ParseStatusFilter(*status)
	if err != nil {
		return err
	}

	views, err := a.client.ListPromos(ctx, a.sess)
	if errors.Is(err, apiclient.ErrUnexpectedShape) {
		fmt.Fprintf(a.out, "warning: %v; showing no promos\n", err)
		views = nil
	} else if err != nil {
		return err
	}

	now := time.Now().In(a.loc)
	promos := make([]promo.Promo, len(views))
	for i, v := range views {
		promos[i] = v.Promo
	}
	writePromoTable(a.out, promo.FilterPromos(promos, *search, statusFilter, now), now)
	return nil
}

func (a *app) preview(ctx context.Context, args []string) error {
	id, err := idArg(args)
	if err != nil {
		return err
	}

	p, err := a.client.PromoPreview(ctx, a.sess, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "status:    %s\ndiscount:  %s%%\nbase:      %s\nsavings:   %s\nfinal:     %s\n",
		p.Status, p.DiscountPercent, p.BasePrice, p.Savings, p.FinalPrice)
	return nil
}

func (a *app) toggle(ctx context.Context, args []string) error {
	id, err := idArg(args)
	if err != nil {
		return err
	}

	v, err := a.client.TogglePromo(ctx, a.sess, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s is_active=%t status=%s\n", v.Code, v.IsActive, v.Status)
	return nil
}

func (a *app) stats(ctx context.Context) error {
	s, err := a.client.PromoStatistics(ctx, a.sess)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "total=%d active=%d scheduled=%d expired=%d inactive=%d\n",
		s.Total, s.Active, s.Scheduled, s.Expired, s.Inactive)
	return nil
}

type transactionCall func(ctx context.Context, sess *apiclient.Session, code string) (*transaction.Transaction, error)

// confirm runs a payment action on one transaction and prints the result.
func (a *app) confirm(ctx context.Context, args []string, call transactionCall) error {
	if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
		return errUsage
	}

	t, err := call(ctx, a.sess, strings.TrimSpace(args[0]))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s %s total=%s membership %s..%s\n",
		t.Code, t.Status, t.Total, t.MembershipStart, t.MembershipEnd)
	return nil
}

func writePromoTable(w io.Writer, promos []promo.Promo, now time.Time) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCODE\tNAME\tPACKAGE\tDISCOUNT\tFINAL\tSTATUS")
	for _, p := range promos {
		v := promo.WithStatus(p, now)
		preview := promo.PreviewFor(v)
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s%%\t%s\t%s\n",
			p.ID, p.Code, p.Name, p.PackageName(), p.DiscountPercent, preview.FinalPrice, v.Status)
	}
	_ = tw.Flush()
}

func idArg(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, errUsage
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", args[0])
	}
	return id, nil
}
