// Package speech speaks vocabulary words aloud.
//
// Two engines are available: OpenAI text-to-speech, which writes the audio
// to a temporary file and hands it to a platform audio player, and espeak-ng,
// which plays directly. NewSpeaker picks one from Config and can chain the
// other as a fallback.
package speech
