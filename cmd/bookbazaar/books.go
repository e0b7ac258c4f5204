package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"bookbazaar/internal/imageutil"
	"bookbazaar/internal/model"
	"bookbazaar/internal/store"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	priceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	conditionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

var (
	booksMine bool

	bookTitle       string
	bookAuthor      string
	bookCondition   string
	bookPrice       int64
	bookDescription string
	bookImagePath   string
)

var booksCmd = &cobra.Command{
	Use:   "books",
	Short: "Browse listings",
	Long:  `List every book on the marketplace, or only your own with --mine.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if booksMine {
			err = current.catalog.FetchOwned(cmd.Context())
		} else {
			err = current.catalog.FetchAll(cmd.Context())
		}

		state := current.catalog.Snapshot()
		if err != nil {
			// Fetches are silent in the sink; the error lives in the store.
			fmt.Fprintln(os.Stderr, dimStyle.Render(state.Err))
			return err
		}
		renderBooks(state)
		return nil
	},
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "List a book for sale",
	RunE: func(cmd *cobra.Command, args []string) error {
		upload, err := gatherUpload(true)
		if err != nil {
			return err
		}
		return current.catalog.Add(cmd.Context(), upload)
	},
}

var updateCmd = &cobra.Command{
	Use:   "update <book-id>",
	Short: "Update one of your listings",
	Long:  `Update a listing. All fields are required again; omit --image to keep the current cover.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		upload, err := gatherUpload(false)
		if err != nil {
			return err
		}
		return current.catalog.Update(cmd.Context(), args[0], upload)
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <book-id>",
	Short: "Delete one of your listings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return current.catalog.Delete(cmd.Context(), args[0])
	},
}

// gatherUpload validates the submission before it reaches the catalog store.
// The store performs no validation of its own.
func gatherUpload(imageRequired bool) (*model.BookUpload, error) {
	upload := &model.BookUpload{
		Title:       bookTitle,
		Author:      bookAuthor,
		Price:       bookPrice,
		Description: bookDescription,
	}

	if bookCondition != "" {
		cond, err := model.ParseCondition(bookCondition)
		if err != nil {
			current.sink.Error(err.Error())
			return nil, err
		}
		upload.Condition = cond
	}

	if bookImagePath != "" {
		data, name, err := imageutil.PrepareCover(
			bookImagePath,
			current.cfg.CoverMaxWidth,
			current.cfg.CoverMaxHeight,
			current.cfg.CoverJPEGQuality,
		)
		if err != nil {
			current.sink.Error(coverErrorText(err))
			return nil, err
		}
		upload.Image = data
		upload.ImageName = name
	}

	if err := upload.Validate(imageRequired); err != nil {
		current.sink.Error("Please fill all fields including description and select an image.")
		return nil, err
	}
	return upload, nil
}

func coverErrorText(err error) string {
	switch {
	case errors.Is(err, model.ErrFileTooLarge):
		return "Cover image exceeds the 10MB limit"
	case errors.Is(err, model.ErrInvalidImageType):
		return "Cover file is not a supported image"
	default:
		return "Could not read the cover image"
	}
}

func renderBooks(state store.CatalogState) {
	if len(state.Books) == 0 {
		fmt.Println(dimStyle.Render("No books listed."))
		return
	}

	heading := "All listings"
	if state.View == store.ViewOwned {
		heading = "Your listings"
	}
	fmt.Println(headerStyle.Render(fmt.Sprintf("%s (%d)", heading, len(state.Books))))

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, b := range state.Books {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			titleStyle.Render(b.Title),
			b.Author,
			conditionStyle.Render(string(b.Condition)),
			priceStyle.Render(fmt.Sprintf("₹%d", b.Price)),
			idStyle.Render(b.ID),
		)
	}
	w.Flush()
}

func init() {
	booksCmd.Flags().BoolVar(&booksMine, "mine", false, "Show only your own listings")

	for _, c := range []*cobra.Command{addCmd, updateCmd} {
		c.Flags().StringVar(&bookTitle, "title", "", "Book title")
		c.Flags().StringVar(&bookAuthor, "author", "", "Book author")
		c.Flags().StringVar(&bookCondition, "condition", "", "Condition: new, good, old or damaged")
		c.Flags().Int64Var(&bookPrice, "price", 0, "Asking price")
		c.Flags().StringVar(&bookDescription, "description", "", "Listing description")
		c.Flags().StringVar(&bookImagePath, "image", "", "Path to a cover image")
	}

	rootCmd.AddCommand(booksCmd, addCmd, updateCmd, deleteCmd)
}
