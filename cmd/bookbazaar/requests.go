package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"bookbazaar/internal/model"
)

var requestMessage string

var requestCmd = &cobra.Command{
	Use:   "request <book-id>",
	Short: "Message the seller of a listing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// An empty message blocks the call before it reaches the store.
		if strings.TrimSpace(requestMessage) == "" {
			current.sink.Error(model.ErrEmptyMessage.Error())
			return model.ErrEmptyMessage
		}
		return current.requests.Send(cmd.Context(), requestMessage, args[0])
	},
}

var requestsCmd = &cobra.Command{
	Use:   "requests",
	Short: "Show requests on listings, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := current.requests.FetchAll(cmd.Context()); err != nil {
			return err
		}

		state := current.requests.Snapshot()
		if len(state.Requests) == 0 {
			fmt.Println(dimStyle.Render("No requests yet."))
			return nil
		}
		for _, req := range state.Requests {
			renderRequest(req)
		}
		return nil
	},
}

func renderRequest(req model.BookRequest) {
	title := "(listing removed)"
	if req.Book != nil {
		title = fmt.Sprintf("%s (₹%d)", req.Book.Title, req.Book.Price)
	}
	fmt.Fprintf(os.Stdout, "%s  %s\n    %s\n",
		dimStyle.Render(req.CreatedAt.Local().Format("2006-01-02 15:04")),
		titleStyle.Render(title),
		req.Message,
	)
}

func init() {
	requestCmd.Flags().StringVarP(&requestMessage, "message", "m", "", "Message for the seller")
	rootCmd.AddCommand(requestCmd, requestsCmd)
}
