package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/urchin/internal/client/models"
)

func (a *App) Viewable(ctx context.Context) error {
	ids, err := a.dataService.ViewableUserIDs(ctx)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		fmt.Fprintln(a.out, "No viewable accounts")
		return nil
	}
	for _, id := range ids {
		fmt.Fprintln(a.out, id)
	}
	return nil
}

func (a *App) Profile(ctx context.Context, userID string) error {
	p, err := a.dataService.Profile(ctx, userID)
	if err != nil {
		return err
	}
	printProfile(a.out, p)
	return nil
}

func printProfile(w io.Writer, p *models.Profile) {
	fmt.Fprintf(w, "User:       %s\n", p.UserID)
	fmt.Fprintf(w, "Full name:  %s\n", p.FullName)
	if p.ShortName != "" {
		fmt.Fprintf(w, "Short name: %s\n", p.ShortName)
	}
	if pt := p.Patient; pt != nil {
		fmt.Fprintf(w, "Birthday:   %s\n", pt.Birthday)
		fmt.Fprintf(w, "Diagnosed:  %s\n", pt.DiagnosisDate)
		if pt.AboutMe != "" {
			fmt.Fprintf(w, "About:      %s\n", pt.AboutMe)
		}
	}
}

// Notes fetches the notes of the last days days and prints them.
func (a *App) Notes(ctx context.Context, userID string, days int) error {
	to := time.Now()
	from := to.AddDate(0, 0, -days)

	notes, err := a.dataService.Notes(ctx, userID, from, to)
	if err != nil {
		return err
	}
	if len(notes) == 0 {
		fmt.Fprintln(a.out, "No notes")
		return nil
	}
	for _, n := range notes {
		author := n.AuthorName
		if author == "" {
			author = n.AuthorID
		}
		fmt.Fprintf(a.out, "%s  %-20s %s\n", n.Timestamp.Local().Format("2006-01-02 15:04"), author, n.MessageText)
	}
	return nil
}
