package scenes

import (
	"fmt"
	"log"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/decker502/grenadegrid/pkg/components"
	"github.com/decker502/grenadegrid/pkg/ecs"
	"github.com/decker502/grenadegrid/pkg/utils"
)

// hudLines 交互阶段左上角的状态文字
func (s *GridScene) hudLines() []string {
	ls := s.ledgerSystem
	lines := []string{
		fmt.Sprintf("grenades %d/%d", ls.ReadyCount(), ls.Capacity()),
	}
	if loading := ls.Len() - ls.ReadyCount(); loading > 0 {
		lines[0] += fmt.Sprintf(" (%d loading)", loading)
	}
	if hl, ok := ecs.GetComponent[*components.HighlightComponent](s.entityManager, s.highlightEntity); ok && hl.Valid {
		lines = append(lines, fmt.Sprintf("cell %v", hl.Cell))
	}
	lines = append(lines, utils.PointerHint())
	if err := s.placementSystem.LastError; err != nil {
		lines = append(lines, "last error: "+err.Error())
	}
	return lines
}

// Report 生成场景状态报告，用于排查问题（F9 复制到剪贴板）
func (s *GridScene) Report() string {
	var b strings.Builder
	fmt.Fprintf(&b, "--- grenadegrid scene report ---\n")
	fmt.Fprintf(&b, "session=%s variant=%s clock=%.2fs mode=%s entities=%d\n",
		s.SessionID, s.cfg.Variant, s.clock, s.Mode(), s.entityManager.Count())

	if phase, ok := ecs.GetComponent[*components.TransitionPhaseComponent](s.entityManager, s.sceneEntity); ok {
		fmt.Fprintf(&b, "armed=%v enteredTransitioning=%d modeChangedAt=%.2fs\n",
			phase.Armed, phase.EnteredTransitioningCount, phase.ModeChangedAt)
	}
	if overlay, ok := ecs.GetComponent[*components.FadeOverlayComponent](s.entityManager, s.overlayEntity); ok {
		fmt.Fprintf(&b, "overlay opacity=%.2f fading=%v target=%.0f\n", overlay.Opacity, overlay.Fading, overlay.To)
	}
	audio := "none"
	if am := s.gameState.GetAudioManager(); am != nil && am.CurrentTrack() != "" {
		audio = am.CurrentTrack()
	}
	fmt.Fprintf(&b, "music enabled=%v track=%s\n", s.gameState.GetSettingsManager().GetSettings().MusicEnabled, audio)
	if cam, ok := ecs.GetComponent[*components.CameraComponent](s.entityManager, s.cameraEntity); ok {
		fmt.Fprintf(&b, "camera pos=(%.2f, %.2f, %.2f) viewport=%dx%d\n",
			cam.Position.X, cam.Position.Y, cam.Position.Z, cam.Width, cam.Height)
	}

	entries := s.ledgerSystem.Entries()
	fmt.Fprintf(&b, "\n== ledger %d/%d ==\n", len(entries), s.ledgerSystem.Capacity())
	if len(entries) == 0 {
		b.WriteString("(empty)\n")
	}
	for i, e := range entries {
		fmt.Fprintf(&b, "%d. cell=%v state=%s entity=%d requestedAt=%.2fs\n",
			i+1, e.Cell, e.State, e.Entity, e.RequestedAt)
	}

	if err := s.placementSystem.LastError; err != nil {
		fmt.Fprintf(&b, "\nlast placement error: %v\n", err)
	}
	if s.lastError != nil {
		fmt.Fprintf(&b, "final content error: %v\n", s.lastError)
	}
	return b.String()
}

// CopyReport 复制场景报告到系统剪贴板
func (s *GridScene) CopyReport() {
	if err := clipboard.WriteAll(s.Report()); err != nil {
		log.Printf("[GridScene] Warning: clipboard unavailable: %v", err)
		return
	}
	log.Printf("[GridScene] Report copied to clipboard")
}
