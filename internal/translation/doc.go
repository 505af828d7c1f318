// Package translation builds the vocabulary and translation prompts, sends
// them through a chat backend and parses the replies. It keeps no state
// between requests: every call is a single system + user prompt.
package translation
