package api

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"crawler-server/internal/domain"
)

// Validator - интерфейс, который могут реализовать DTO
type Validator interface {
	Validate() error
}

func (p JoinPayload) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("name is required")
	}
	return nil
}

func (p MovePayload) Validate() error {
	relative := p.Dx != nil || p.Dy != nil
	if relative && p.IsAbsolute() {
		return errors.New("either dx/dy or targetX/targetY, not both")
	}

	if p.IsAbsolute() {
		if p.TargetX == nil || p.TargetY == nil {
			return errors.New("targetX and targetY are both required")
		}
		if !finite(*p.TargetX) || !finite(*p.TargetY) {
			return errors.New("target must be finite")
		}
		return nil
	}

	dx, dy := p.Delta()
	if !finite(dx) || !finite(dy) {
		return errors.New("movement vector must be finite")
	}
	if dx == 0 && dy == 0 {
		return errors.New("movement vector cannot be zero")
	}
	if math.Abs(dx) > domain.MaxMoveDelta || math.Abs(dy) > domain.MaxMoveDelta {
		return errors.New("movement step too large")
	}
	return nil
}

func (p ChatPayload) Validate() error {
	n := utf8.RuneCountInString(p.Message)
	if strings.TrimSpace(p.Message) == "" {
		return errors.New("message is required")
	}
	if n > domain.MaxChatLength {
		return fmt.Errorf("message longer than %d characters", domain.MaxChatLength)
	}
	return nil
}

func (p EquipItemPayload) Validate() error {
	if err := validateSlotPosition(p.SlotPosition); err != nil {
		return err
	}
	return validateEquipmentSlot(p.EquipmentSlot)
}

func (p UnequipItemPayload) Validate() error {
	return validateEquipmentSlot(p.EquipmentSlot)
}

func (p SlotPayload) Validate() error {
	return validateSlotPosition(p.SlotPosition)
}

func validateSlotPosition(pos int) error {
	if pos < 0 || pos >= domain.MaxInventorySlots {
		return fmt.Errorf("slotPosition must be in 0..%d", domain.MaxInventorySlots-1)
	}
	return nil
}

func validateEquipmentSlot(s string) error {
	if domain.ParseEquipmentSlot(s) == domain.SlotUnknown {
		return fmt.Errorf("unknown equipment slot %q", s)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
