package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/avrentops/rentalctl/internal/api"
	"github.com/avrentops/rentalctl/internal/cli/ui"
	"github.com/avrentops/rentalctl/internal/domain"
)

func newWhatsAppCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whatsapp",
		Short: "Send and review WhatsApp notifications",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return requireSession(rt, cmd)
		},
	}

	var send api.WhatsAppSend
	var msgType string
	sendCmd := &cobra.Command{
		Use:   "send --to <phone> --message <text>",
		Short: "Send a message to one recipient",
		RunE: func(cmd *cobra.Command, args []string) error {
			if msgType != "" {
				send.MessageType = domain.WhatsAppMessageType(msgType)
			}
			var sent *domain.WhatsAppMessage
			err := ui.Spin("sending message", func() error {
				var err error
				sent, err = rt.client.SendWhatsAppMessage(cmd.Context(), send)
				return err
			})
			if err != nil {
				return err
			}
			return emit(rt, sent, func() {
				fmt.Printf("sent %s to %s (%s)\n", sent.ID, sent.RecipientPhone, sent.Status)
			})
		},
	}
	sendCmd.Flags().StringVar(&send.RecipientPhone, "to", "", "recipient phone number")
	sendCmd.Flags().StringVar(&send.RecipientName, "name", "", "recipient name")
	sendCmd.Flags().StringVar(&send.MessageContent, "message", "", "message body")
	sendCmd.Flags().StringVar(&msgType, "type", "", "message type (INVITATION|RAPPEL|NOTIFICATION|AUTRE)")
	sendCmd.Flags().StringVar(&send.EventID, "event", "", "related event id")
	_ = sendCmd.MarkFlagRequired("to")
	_ = sendCmd.MarkFlagRequired("message")

	var invitePhones []string
	var inviteMessage string
	invite := &cobra.Command{
		Use:   "invite <event-id>",
		Short: "Invite technicians to an event",
		Long: "Sends an invitation for the event. Without --phone the invitation " +
			"goes to every technician assigned to the event.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var sent []domain.WhatsAppMessage
			err := ui.Spin("sending invitations", func() error {
				var err error
				sent, err = rt.client.SendEventInvitation(cmd.Context(), args[0], invitePhones, inviteMessage)
				return err
			})
			if err != nil {
				return err
			}
			return emit(rt, sent, func() {
				for _, m := range sent {
					fmt.Printf("invited %s (%s)\n", m.RecipientPhone, m.Status)
				}
				fmt.Printf("%d invitation(s) sent\n", len(sent))
			})
		},
	}
	invite.Flags().StringSliceVar(&invitePhones, "phone", nil, "explicit recipient phone (repeatable)")
	invite.Flags().StringVar(&inviteMessage, "message", "", "override the default invitation text")

	params := &api.WhatsAppHistoryParams{}
	history := &cobra.Command{
		Use:   "history",
		Short: "List sent messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := rt.client.WhatsAppHistory(cmd.Context(), params)
			if err != nil {
				return err
			}
			return emit(rt, page, func() {
				rows := make([][]string, 0, len(page.Items))
				for _, m := range page.Items {
					rows = append(rows, []string{
						m.SentAt.Format("2006-01-02 15:04"),
						m.RecipientPhone, string(m.MessageType), string(m.Status),
					})
				}
				fmt.Print(ui.Table([]string{"SENT", "RECIPIENT", "TYPE", "STATUS"}, rows))
				fmt.Println(ui.Pager(page.Page, page.TotalPages, page.Total))
			})
		},
	}
	history.Flags().StringVar(&params.EventID, "event", "", "filter by event id")
	history.Flags().StringVar(&params.Status, "status", "", "filter by status")
	history.Flags().IntVar(&params.Page, "page", 0, "page number")
	history.Flags().IntVar(&params.Limit, "limit", 0, "page size")

	cmd.AddCommand(sendCmd, invite, history)
	return cmd
}
