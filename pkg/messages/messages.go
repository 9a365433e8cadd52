// Package messages holds the user-visible strings sent by the bot.
package messages

const (
	// ErrUserErrorProcessing is the generic failure message shown to a user
	// when a command or interaction could not be processed.
	ErrUserErrorProcessing = "Something went wrong while processing your request. Please try again later."

	// ErrNotPrivileged is shown when a user attempts a privileged action.
	ErrNotPrivileged = "You are not allowed to use this command."

	// TicketExists is shown when a user already has an open ticket. It takes
	// the existing channel ID.
	TicketExists = "You already have an open ticket: <#%s>"

	// TicketCreated is shown when a ticket has been created. It takes the new
	// channel ID.
	TicketCreated = "Your ticket has been created: <#%s>"

	// TicketClosing is shown inside a ticket channel once the close action has
	// been accepted. It takes the number of seconds until deletion.
	TicketClosing = "Closing this ticket in %d seconds."

	// TicketNotAChannel is shown when a close action is invoked outside a
	// ticket channel.
	TicketNotAChannel = "This is not a ticket channel."

	// VerifyGranted is shown when the verify role has been assigned.
	VerifyGranted = "You have been verified. Welcome!"

	// VerifyFailed is shown when the verify role could not be assigned.
	VerifyFailed = "Verification failed. Please contact a staff member."
)
