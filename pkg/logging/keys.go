package logging

const (
	// KeyAppName is the attribute key for the application name.
	KeyAppName = `app`

	// KeyError is the attribute key for errors.
	KeyError = `err`

	// KeyDal is the attribute key for the data access layer in use.
	KeyDal = `dal`

	// KeyGuildID is the attribute key for a guild ID.
	KeyGuildID = `guild_id`

	// KeyChannelID is the attribute key for a channel ID.
	KeyChannelID = `channel_id`

	// KeyUserID is the attribute key for a user ID.
	KeyUserID = `user_id`

	// KeyCommand is the attribute key for a command name.
	KeyCommand = `command`
)
