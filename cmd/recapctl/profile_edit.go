package main

import (
	"fmt"

	"github.com/mialhq/recapctl/internal/display"
	"github.com/mialhq/recapctl/internal/editor"
	"github.com/mialhq/recapctl/internal/types"
	"github.com/spf13/cobra"
)

var (
	editMailbox     string
	editRecipient   string
	editSendTime    string
	editStartDays   int
	editEndDays     int
	editStartTime   string
	editEndTime     string
	editSenders     []string
	editExclude     []string
	editCC          []string
	editUnreadOnly  bool
	editNoSpam      bool
	editNoMarketing bool
	editMarkRead    bool
	editAudio       bool
	editVoice       string
	editSpeed       float64
	editLang        string
	editSort        string
)

var profilesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a recap automation",
	Long: `Create a recap automation for a connected mailbox.

With a single connected mailbox it is selected automatically; otherwise
pass --mailbox with the mailbox id or address.

Examples:
  recapctl profiles create --to me@example.com
  recapctl profiles create --mailbox work@example.com --to me@example.com --time 07:30 --audio`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mbx, err := pickMailbox(cmd)
		if err != nil {
			return err
		}

		ed := editor.New(editor.UserAPI(client), false)
		if err := ed.OpenForCreate(mbx); err != nil {
			return err
		}
		applyProfileFlags(cmd, ed.Draft())

		if err := ed.Save(cmd.Context()); err != nil {
			return err
		}
		if !quietFlag {
			display.SuccessMsg("Automation created for %s", mbx.Email)
		}
		return nil
	},
}

var profilesEditCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Edit a recap automation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ed := editor.New(editor.UserAPI(client), false)
		if err := ed.Reload(cmd.Context()); err != nil {
			return err
		}
		ed.OpenForEdit(types.FlexID(args[0]))
		if ed.View() != editor.ViewEditor {
			return fmt.Errorf("profile %q not found", args[0])
		}
		applyProfileFlags(cmd, ed.Draft())

		if err := ed.Save(cmd.Context()); err != nil {
			return err
		}
		if !quietFlag {
			display.SuccessMsg("Profile %s updated", args[0])
		}
		return nil
	},
}

// pickMailbox resolves the source mailbox for a create: the one connected
// mailbox when there is exactly one, otherwise the --mailbox selector.
func pickMailbox(cmd *cobra.Command) (*types.Mailbox, error) {
	boxes, err := client.MyMailboxes(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("list mailboxes: %w", err)
	}

	if editMailbox != "" {
		for _, m := range boxes {
			if m.ID.String() == editMailbox || m.Email == editMailbox {
				return m, nil
			}
		}
		return nil, fmt.Errorf("mailbox %q not found", editMailbox)
	}

	switch len(boxes) {
	case 0:
		return nil, fmt.Errorf("no mailboxes connected, connect one in the portal first")
	case 1:
		return boxes[0], nil
	default:
		return nil, fmt.Errorf("%d mailboxes connected, specify --mailbox", len(boxes))
	}
}

// applyProfileFlags copies only the flags the user actually set onto the
// draft, so edits leave untouched fields alone.
func applyProfileFlags(cmd *cobra.Command, draft *types.RecapProfile) {
	flags := cmd.Flags()
	if flags.Changed("to") {
		draft.Recipient = editRecipient
	}
	if flags.Changed("time") {
		draft.SendTime = editSendTime
	}
	if flags.Changed("start-day") {
		draft.StartDays = editStartDays
	}
	if flags.Changed("end-day") {
		draft.EndDays = editEndDays
	}
	if flags.Changed("start-time") {
		draft.StartTime = editStartTime
	}
	if flags.Changed("end-time") {
		draft.EndTime = editEndTime
	}
	if flags.Changed("senders") {
		draft.SendersAllow = editSenders
	}
	if flags.Changed("exclude-senders") {
		draft.SendersExclude = editExclude
	}
	if flags.Changed("cc") {
		draft.CCAllow = editCC
	}
	if flags.Changed("unread-only") {
		draft.UnreadOnly = editUnreadOnly
	}
	if flags.Changed("no-spam-filter") {
		draft.FilterSpam = !editNoSpam
	}
	if flags.Changed("no-marketing-filter") {
		draft.FilterMarketing = !editNoMarketing
	}
	if flags.Changed("mark-read") {
		draft.MarkAsRead = editMarkRead
	}
	if flags.Changed("audio") {
		draft.AudioEnabled = editAudio
	}
	if flags.Changed("voice") {
		draft.VoiceID = editVoice
	}
	if flags.Changed("speed") {
		draft.Speed = editSpeed
	}
	if flags.Changed("lang") {
		draft.Language = editLang
	}
	if flags.Changed("sort") {
		draft.SortMode = editSort
	}
}

// registerProfileFlags adds the shared draft flags to a command.
func registerProfileFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&editRecipient, "to", "", "Recipient address for the recap")
	f.StringVar(&editSendTime, "time", "", "Daily send time (HH:MM)")
	f.IntVar(&editStartDays, "start-day", 0, "Lookback window start (day offset)")
	f.IntVar(&editEndDays, "end-day", 0, "Lookback window end (day offset)")
	f.StringVar(&editStartTime, "start-time", "", "Daily window start (HH:MM)")
	f.StringVar(&editEndTime, "end-time", "", "Daily window end (HH:MM)")
	f.StringSliceVar(&editSenders, "senders", nil, "Sender allow-list")
	f.StringSliceVar(&editExclude, "exclude-senders", nil, "Sender exclude-list")
	f.StringSliceVar(&editCC, "cc", nil, "CC allow-list")
	f.BoolVar(&editUnreadOnly, "unread-only", false, "Only include unread messages")
	f.BoolVar(&editNoSpam, "no-spam-filter", false, "Disable the spam filter")
	f.BoolVar(&editNoMarketing, "no-marketing-filter", false, "Disable the marketing filter")
	f.BoolVar(&editMarkRead, "mark-read", false, "Mark summarised messages as read")
	f.BoolVar(&editAudio, "audio", false, "Enable the audio rendition")
	f.StringVar(&editVoice, "voice", "", "Audio voice id")
	f.Float64Var(&editSpeed, "speed", 1.0, "Audio speed multiplier")
	f.StringVar(&editLang, "lang", "", "Recap language")
	f.StringVar(&editSort, "sort", "", "Sort/grouping mode")
}

func init() {
	profilesCreateCmd.Flags().StringVar(&editMailbox, "mailbox", "", "Source mailbox id or address")
	registerProfileFlags(profilesCreateCmd)
	registerProfileFlags(profilesEditCmd)

	profilesCmd.AddCommand(profilesCreateCmd)
	profilesCmd.AddCommand(profilesEditCmd)
}
