package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/vocabkeeper/internal/client/api"
)

// List prints the caller's vocabulary. Optional args: category, skip, limit.
func (a *App) List(ctx context.Context, args []string) error {
	var opts api.ListOptions
	if len(args) > 0 {
		opts.Category = args[0]
	}
	for i, dst := range []*int{&opts.Skip, &opts.Limit} {
		if len(args) > i+1 {
			n, err := strconv.Atoi(args[i+1])
			if err != nil {
				fmt.Fprintln(a.out, "Usage: list [category] [skip] [limit]")
				return err
			}
			*dst = n
		}
	}

	list, err := a.api.ListVocabularies(ctx, opts)
	if err != nil {
		a.report(err)
		return err
	}
	a.printVocabularies(list)
	return nil
}

// Add prompts for the fields of a new entry.
func (a *App) Add(ctx context.Context) error {
	var in api.NewVocabulary
	for _, f := range []struct {
		prompt string
		dst    *string
	}{
		{"Word", &in.Word},
		{"Meaning", &in.Meaning},
		{"Example (optional)", &in.Example},
		{"Category (optional)", &in.Category},
		{"Language (optional, default en)", &in.Language},
	} {
		v, err := getSimpleText(a.reader, f.prompt, a.out)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	v, err := a.api.AddVocabulary(ctx, in)
	if err != nil {
		a.report(err)
		return err
	}
	fmt.Fprintf(a.out, "Added %s (%s)\n", v.Word, v.ID)
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := a.idArg(args)
	if err != nil {
		return err
	}

	cats, err := a.api.DeleteVocabulary(ctx, id)
	if err != nil {
		a.report(err)
		return err
	}
	fmt.Fprintln(a.out, "Vocabulary deleted")
	if cats != nil {
		fmt.Fprintf(a.out, "Categories: %s\n", strings.Join(cats, ", "))
	}
	return nil
}

func (a *App) Categories(ctx context.Context) error {
	cats, err := a.api.Categories(ctx)
	if err != nil {
		a.report(err)
		return err
	}
	for _, c := range cats {
		fmt.Fprintln(a.out, c)
	}
	return nil
}

func (a *App) Favorites(ctx context.Context) error {
	list, err := a.api.Favorites(ctx)
	if err != nil {
		a.report(err)
		return err
	}
	a.printVocabularies(list)
	return nil
}

func (a *App) Favorite(ctx context.Context, args []string) error {
	id, err := a.idArg(args)
	if err != nil {
		return err
	}
	if err := a.api.AddFavorite(ctx, id); err != nil {
		a.report(err)
		return err
	}
	fmt.Fprintln(a.out, "Added to favorites")
	return nil
}

func (a *App) Unfavorite(ctx context.Context, args []string) error {
	id, err := a.idArg(args)
	if err != nil {
		return err
	}
	if err := a.api.RemoveFavorite(ctx, id); err != nil {
		a.report(err)
		return err
	}
	fmt.Fprintln(a.out, "Removed from favorites")
	return nil
}

func (a *App) idArg(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	return getSimpleText(a.reader, "Enter id", a.out)
}

func (a *App) printVocabularies(list []api.Vocabulary) {
	if len(list) == 0 {
		fmt.Fprintln(a.out, "(empty)")
		return
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tWORD\tMEANING\tCATEGORY")
	for _, v := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", v.ID, v.Word, v.Meaning, v.Category)
	}
	w.Flush()
}
