package events

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/json"
	"github.com/disgoorg/snowflake/v2"
)

const (
	colorRed     = 0xED4245
	colorYellow  = 0xFEE75C
	colorGreen   = 0x57F287
	colorOrange  = 0xE67E22
	colorBlue    = 0x3498DB
	colorDarkRed = 0x992D22
	colorTeal    = 0x1ABC9C

	fieldLimit       = 1024
	descriptionLimit = 4096
)

func MemberJoinEmbed(member discord.Member) discord.Embed {
	return memberEmbed("Member Joined", colorGreen, "%s joined the server", member.User)
}

func MemberLeaveEmbed(user discord.User) discord.Embed {
	return memberEmbed("Member Left", colorOrange, "%s left the server", user)
}

func MemberBanEmbed(user discord.User) discord.Embed {
	return memberEmbed("Member Banned", colorDarkRed, "%s was banned", user)
}

func MemberUnbanEmbed(user discord.User) discord.Embed {
	return memberEmbed("Member Unbanned", colorTeal, "%s was unbanned", user)
}

func memberEmbed(title string, color int, description string, user discord.User) discord.Embed {
	return discord.Embed{
		Title:       title,
		Color:       color,
		Description: fmt.Sprintf(description, user.Mention()),
		Author:      userAuthor(user),
		Fields: []discord.EmbedField{
			{Name: "Account Age", Value: formatAge(time.Since(user.CreatedAt())), Inline: json.Ptr(true)},
			{Name: "User ID", Value: fmt.Sprintf("`%d`", user.ID), Inline: json.Ptr(true)},
		},
	}
}

// MemberUpdateEmbed returns nil unless the nickname, roles or guild avatar changed.
func MemberUpdateEmbed(before discord.Member, after discord.Member) *discord.Embed {
	if before.User.ID == 0 {
		return nil
	}
	var fields []discord.EmbedField
	if oldNick, newNick := deref(before.Nick), deref(after.Nick); oldNick != newNick {
		fields = append(fields,
			discord.EmbedField{Name: "Nickname Before", Value: orNone(oldNick), Inline: json.Ptr(true)},
			discord.EmbedField{Name: "Nickname After", Value: orNone(newNick), Inline: json.Ptr(true)},
		)
	}
	if added := roleDiff(after.RoleIDs, before.RoleIDs); len(added) != 0 {
		fields = append(fields, discord.EmbedField{Name: "Roles Added", Value: truncate(roleMentions(added), fieldLimit)})
	}
	if removed := roleDiff(before.RoleIDs, after.RoleIDs); len(removed) != 0 {
		fields = append(fields, discord.EmbedField{Name: "Roles Removed", Value: truncate(roleMentions(removed), fieldLimit)})
	}
	if deref(before.Avatar) != deref(after.Avatar) {
		fields = append(fields, discord.EmbedField{Name: "Server Avatar", Value: "Updated"})
	}
	if len(fields) == 0 {
		return nil
	}
	return &discord.Embed{
		Title:       "Member Updated",
		Color:       colorBlue,
		Description: after.User.Mention(),
		Author:      userAuthor(after.User),
		Fields:      fields,
	}
}

// UserUpdateEmbed returns nil unless the username, display name or avatar changed.
func UserUpdateEmbed(before discord.User, after discord.User) *discord.Embed {
	if before.ID == 0 {
		return nil
	}
	embed := discord.Embed{
		Title:       "User Updated",
		Color:       colorBlue,
		Description: after.Mention(),
	}
	if before.Username != after.Username {
		embed.Fields = append(embed.Fields,
			discord.EmbedField{Name: "Username Before", Value: before.Username, Inline: json.Ptr(true)},
			discord.EmbedField{Name: "Username After", Value: after.Username, Inline: json.Ptr(true)},
		)
	}
	if oldName, newName := deref(before.GlobalName), deref(after.GlobalName); oldName != newName {
		embed.Fields = append(embed.Fields,
			discord.EmbedField{Name: "Display Name Before", Value: orNone(oldName), Inline: json.Ptr(true)},
			discord.EmbedField{Name: "Display Name After", Value: orNone(newName), Inline: json.Ptr(true)},
		)
	}
	if deref(before.Avatar) != deref(after.Avatar) {
		embed.Fields = append(embed.Fields, discord.EmbedField{Name: "Avatar", Value: "Updated"})
		embed.Thumbnail = &discord.EmbedResource{URL: after.EffectiveAvatarURL()}
	}
	if len(embed.Fields) == 0 {
		return nil
	}
	return &embed
}

// MessageEditEmbed returns nil for bot messages, uncached originals and edits
// that leave the text untouched, such as link unfurls.
func MessageEditEmbed(guildID snowflake.ID, before discord.Message, after discord.Message) *discord.Embed {
	if after.Author.Bot || before.Author.ID == 0 || before.Content == after.Content {
		return nil
	}
	embed := discord.Embed{
		Title:  "Message Edited",
		Color:  colorYellow,
		Author: userAuthor(after.Author),
		Fields: []discord.EmbedField{
			{Name: "User", Value: after.Author.Mention(), Inline: json.Ptr(true)},
			{Name: "Channel", Value: channelMention(after.ChannelID), Inline: json.Ptr(true)},
			{Name: "Link", Value: fmt.Sprintf("[Jump to message](%s)", messageLink(guildID, after.ChannelID, after.ID)), Inline: json.Ptr(true)},
		},
	}
	if before.Content != "" {
		embed.Fields = append(embed.Fields, discord.EmbedField{Name: "Before", Value: codeBlock(before.Content)})
	}
	embed.Fields = append(embed.Fields, discord.EmbedField{Name: "After", Value: codeBlock(orNone(after.Content))})
	return &embed
}

// MessageDeleteEmbed returns nil for bot messages and messages that were never cached.
func MessageDeleteEmbed(message discord.Message) *discord.Embed {
	if message.Author.ID == 0 || message.Author.Bot {
		return nil
	}
	embed := discord.Embed{
		Title:       "Message Deleted",
		Color:       colorRed,
		Description: truncate(orNone(message.Content), descriptionLimit),
		Author:      userAuthor(message.Author),
		Fields: []discord.EmbedField{
			{Name: "User", Value: message.Author.Mention(), Inline: json.Ptr(true)},
			{Name: "Channel", Value: channelMention(message.ChannelID), Inline: json.Ptr(true)},
		},
	}
	if n := len(message.Attachments); n != 0 {
		embed.Fields = append(embed.Fields, discord.EmbedField{Name: "Attachments", Value: fmt.Sprint(n), Inline: json.Ptr(true)})
	}
	return &embed
}

func userAuthor(user discord.User) *discord.EmbedAuthor {
	return &discord.EmbedAuthor{
		Name:    user.Username,
		IconURL: user.EffectiveAvatarURL(),
	}
}

func roleDiff(a []snowflake.ID, b []snowflake.ID) []snowflake.ID {
	var diff []snowflake.ID
	for _, id := range a {
		if !slices.Contains(b, id) {
			diff = append(diff, id)
		}
	}
	return diff
}

func roleMentions(ids []snowflake.ID) string {
	mentions := make([]string, len(ids))
	for i, id := range ids {
		mentions[i] = fmt.Sprintf("<@&%d>", id)
	}
	return strings.Join(mentions, ", ")
}

func channelMention(id snowflake.ID) string {
	return fmt.Sprintf("<#%d>", id)
}

func messageLink(guildID snowflake.ID, channelID snowflake.ID, messageID snowflake.ID) string {
	return fmt.Sprintf("https://discord.com/channels/%d/%d/%d", guildID, channelID, messageID)
}

func codeBlock(s string) string {
	// 8 bytes for the fences and newlines
	return "```\n" + truncate(s, fieldLimit-8) + "\n```"
}

func formatAge(d time.Duration) string {
	days := int(d.Hours() / 24)
	switch {
	case days >= 365:
		return fmt.Sprintf("%d years, %d days", days/365, days%365)
	case days >= 1:
		return fmt.Sprintf("%d days", days)
	default:
		return fmt.Sprintf("%d hours", int(d.Hours()))
	}
}

// truncate cuts s to at most limit runes.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func orNone(s string) string {
	if s == "" {
		return "*None*"
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
