// Package prompt provides simple interactive prompts.
//
// Prompts render on stderr so stdout stays free for command output.
//
// Available prompts:
//   - [Confirm]: Yes/No confirmation prompt, used before destructive
//     cache operations
package prompt
