package player

import "io"

// Config contains settings that affect playback behavior.
type Config struct {
	Trace       io.Writer // per-frame/per-polygon decode log
	SkipPadding bool      // treat 0x55 bytes in flags position as filler
	Loop        bool      // restart from offset 0 at the normal end of stream
}
