package app

import (
	"fmt"
	"strings"

	"lumen/lumenos/kernel"
)

// installPanicHandler makes a task panic safe: the beam goes dark and the
// step timer stops before anything is logged.
func installPanicHandler(s *system) {
	kernel.SetPanicHandler(func(info kernel.PanicInfo) {
		s.halt(fmt.Errorf("%w: task %d: %v", ErrHalted, info.TaskID, info.Value))

		l := s.h.Logger()
		if l == nil {
			return
		}
		l.WriteLineString(fmt.Sprintf("lumen panic: task=%d panic=%v", info.TaskID, info.Value))
		for _, line := range strings.Split(string(info.Stack), "\n") {
			if line != "" {
				l.WriteLineString(line)
			}
		}

		if s.hud != nil {
			w, h := s.hud.d.Size()
			_ = s.hud.d.FillRectangle(0, 0, w, h, colorHUDBG)
			s.hud.line(0, colorHUDFault, "PANIC: laser off")
			s.hud.line(1, colorHUDFault, fmt.Sprintf("task %d", info.TaskID))
			s.hud.line(2, colorHUDDim, fitText(fmt.Sprint(info.Value), 40))
			_ = s.hud.d.Display()
		}
	})
}

func fitText(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	return s[:max]
}
