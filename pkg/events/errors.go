package events

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/lmittmann/tint"
)

const messageLimit = 2000

// AdminChannel is the channel of the home guild where bot-wide notices go.
// The zero value is an unconfigured channel.
type AdminChannel struct {
	id snowflake.ID
}

func NewAdminChannel(id snowflake.ID) AdminChannel {
	return AdminChannel{id: id}
}

func (a AdminChannel) ID() snowflake.ID {
	return a.id
}

func (a AdminChannel) Configured() bool {
	return a.id != 0
}

// ErrorReporter posts unhandled errors to the admin channel.
type ErrorReporter struct {
	sender MessageSender
	admin  AdminChannel
}

func NewErrorReporter(sender MessageSender, admin AdminChannel) *ErrorReporter {
	return &ErrorReporter{sender: sender, admin: admin}
}

// Report never fails: if the report cannot be sent it is only logged.
func (r *ErrorReporter) Report(ctx context.Context, err error, details string) {
	slog.Error("sushi: unhandled error", slog.String("details", details), tint.Err(err))
	if !r.admin.Configured() {
		return
	}
	if sendErr := r.sender.Send(ctx, r.admin.ID(), discord.MessageCreate{Content: FormatErrorReport(err, details)}); sendErr != nil {
		slog.Warn("sushi: error while sending an error report", slog.Any("channel.id", r.admin.ID()), tint.Err(sendErr))
	}
}

// FormatErrorReport renders the report as a code block that fits into one message.
func FormatErrorReport(err error, details string) string {
	head := fmt.Sprintf("```\nGeneric Error\n\n%v\n\nDetails:\n", err)
	const tail = "\n```"
	if room := messageLimit - len([]rune(head)) - len(tail); room > 1 {
		details = truncate(details, room)
	} else {
		head = truncate(head, messageLimit-len(tail))
		details = ""
	}
	return head + details + tail
}
