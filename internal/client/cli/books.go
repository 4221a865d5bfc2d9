package cli

import (
	"context"
	"fmt"

	"shelftrack/internal/client/models"
)

func (a *App) List(ctx context.Context, query string) error {
	books, err := a.books.List(ctx, a.sess)
	if err != nil {
		fmt.Fprintln(a.out, describeError(err))
		return err
	}

	books = models.FilterBooks(books, query)
	if len(books) == 0 {
		fmt.Fprintln(a.out, "No books found.")
		return nil
	}

	for _, b := range books {
		fmt.Fprintf(a.out, "%s  [%-9s]  %s — %s\n", b.ID, b.Status, b.Title, b.Author)
	}
	return nil
}

func (a *App) Show(ctx context.Context) error {
	id, err := GetRequiredText(a.reader, "Book id", a.out)
	if err != nil {
		return err
	}

	b, err := a.books.Get(ctx, a.sess, id)
	if err != nil {
		fmt.Fprintln(a.out, describeError(err))
		return err
	}

	fmt.Fprintf(a.out, "Title:   %s\n", b.Title)
	fmt.Fprintf(a.out, "Author:  %s\n", b.Author)
	fmt.Fprintf(a.out, "Status:  %s\n", b.Status)
	if b.StartDate != "" {
		fmt.Fprintf(a.out, "Started: %s\n", b.StartDate)
	}
	if b.EndDate != "" {
		fmt.Fprintf(a.out, "Ended:   %s\n", b.EndDate)
	}
	if b.Comment != "" {
		fmt.Fprintf(a.out, "Comment: %s\n", b.Comment)
	}
	return nil
}

func (a *App) Add(ctx context.Context) error {
	in, err := a.readBookForm(models.BookInput{Status: models.StatusToRead})
	if err != nil {
		return err
	}

	id, err := a.books.Add(ctx, a.sess, in)
	if err != nil {
		fmt.Fprintln(a.out, describeError(err))
		return err
	}

	fmt.Fprintf(a.out, "Added book %s.\n", id)
	return nil
}

func (a *App) Edit(ctx context.Context) error {
	id, err := GetRequiredText(a.reader, "Book id to edit", a.out)
	if err != nil {
		return err
	}

	current, err := a.books.Get(ctx, a.sess, id)
	if err != nil {
		fmt.Fprintln(a.out, describeError(err))
		return err
	}

	in, err := a.readBookForm(models.BookInput{
		Title:     current.Title,
		Author:    current.Author,
		Status:    current.Status,
		StartDate: current.StartDate,
		EndDate:   current.EndDate,
		Comment:   current.Comment,
	})
	if err != nil {
		return err
	}

	if err := a.books.Update(ctx, a.sess, id, in); err != nil {
		fmt.Fprintln(a.out, describeError(err))
		return err
	}

	fmt.Fprintln(a.out, "Book updated.")
	return nil
}

func (a *App) Delete(ctx context.Context) error {
	id, err := GetRequiredText(a.reader, "Book id to delete", a.out)
	if err != nil {
		return err
	}

	ok, err := GetConfirmation(a.reader, "Delete this book? This cannot be undone.", a.out)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	if err := a.books.Delete(ctx, a.sess, id); err != nil {
		fmt.Fprintln(a.out, describeError(err))
		return err
	}

	fmt.Fprintln(a.out, "Book deleted.")
	return nil
}

func (a *App) Stats(ctx context.Context) error {
	stats, err := a.books.Stats(ctx, a.sess)
	if err != nil {
		fmt.Fprintln(a.out, describeError(err))
		return err
	}

	fmt.Fprintf(a.out, "Total:      %d\n", stats.Total)
	fmt.Fprintf(a.out, "Reading:    %d\n", stats.Reading)
	fmt.Fprintf(a.out, "Completed:  %d\n", stats.Completed)
	fmt.Fprintf(a.out, "To read:    %d\n", stats.ToRead)
	return nil
}

func (a *App) Profile(ctx context.Context) error {
	p, err := a.auth.CurrentProfile(ctx, a.sess)
	if err != nil {
		fmt.Fprintln(a.out, describeError(err))
		return err
	}

	fmt.Fprintf(a.out, "Name:   %s\n", p.DisplayName())
	fmt.Fprintf(a.out, "Email:  %s\n", p.Email)
	fmt.Fprintf(a.out, "Joined: %s\n", p.JoinDate)
	return nil
}

func (a *App) EditName(ctx context.Context) error {
	first, err := GetRequiredText(a.reader, "First name", a.out)
	if err != nil {
		return err
	}
	last, err := GetRequiredText(a.reader, "Last name", a.out)
	if err != nil {
		return err
	}

	if err := a.auth.UpdateProfile(ctx, a.sess, first, last); err != nil {
		fmt.Fprintln(a.out, describeError(err))
		return err
	}

	fmt.Fprintln(a.out, "Profile updated.")
	return nil
}

// readBookForm collects the book fields, using def for defaults. Title,
// author and status are required here because the data-access layer trusts
// its caller. Whether an end date fits the chosen status is left to the
// user.
func (a *App) readBookForm(def models.BookInput) (models.BookInput, error) {
	var in models.BookInput
	var err error

	if def.Title == "" {
		in.Title, err = GetRequiredText(a.reader, "Title", a.out)
	} else {
		in.Title, err = GetTextDefault(a.reader, "Title", def.Title, a.out)
	}
	if err != nil {
		return in, err
	}

	if def.Author == "" {
		in.Author, err = GetRequiredText(a.reader, "Author", a.out)
	} else {
		in.Author, err = GetTextDefault(a.reader, "Author", def.Author, a.out)
	}
	if err != nil {
		return in, err
	}

	for {
		v, err := GetTextDefault(a.reader, "Status (to-read/reading/completed)", string(def.Status), a.out)
		if err != nil {
			return in, err
		}
		switch models.BookStatus(v) {
		case models.StatusToRead, models.StatusReading, models.StatusCompleted:
			in.Status = models.BookStatus(v)
		default:
			fmt.Fprintln(a.out, "Status must be to-read, reading or completed.")
			continue
		}
		break
	}

	if in.StartDate, err = GetTextDefault(a.reader, "Start date (YYYY-MM-DD, optional)", def.StartDate, a.out); err != nil {
		return in, err
	}
	if in.EndDate, err = GetTextDefault(a.reader, "End date (YYYY-MM-DD, optional)", def.EndDate, a.out); err != nil {
		return in, err
	}
	if in.Comment, err = GetTextDefault(a.reader, "Comment (optional)", def.Comment, a.out); err != nil {
		return in, err
	}
	return in, nil
}
