package domain

import "strings"

// ActionType - Внутренний числовой идентификатор команды клиента
type ActionType uint8

const (
	ActionUnknown ActionType = iota
	ActionJoin
	ActionMove
	ActionChat
	ActionEquipItem
	ActionUnequipItem
	ActionUseItem
	ActionDropItem

	// Служебные записи журнала, клиент их прислать не может
	ActionRegenerate
	ActionAdminGive
	ActionAdminTeleport
)

// Маппинг для логов Domain -> String (совпадает с тегом type на проводе)
var actionCmdToString = map[ActionType]string{
	ActionJoin:        "Join",
	ActionMove:        "Move",
	ActionChat:        "Chat",
	ActionEquipItem:   "EquipItem",
	ActionUnequipItem: "UnequipItem",
	ActionUseItem:     "UseItem",
	ActionDropItem:    "DropItem",
}

// Служебные действия: имя для логов и журнала
var systemActionToString = map[ActionType]string{
	ActionRegenerate:    "Regenerate",
	ActionAdminGive:     "admin:give",
	ActionAdminTeleport: "admin:teleport",
}

// Админские команды по имени из URL
var adminActions = map[string]ActionType{
	"give":     ActionAdminGive,
	"teleport": ActionAdminTeleport,
}

// Маппинг для конвертации JSON -> Domain
var actionStringToCmd = func() map[string]ActionType {
	m := make(map[string]ActionType, len(actionCmdToString))
	for k, v := range actionCmdToString {
		m[strings.ToUpper(v)] = k
	}
	return m
}()

// ParseAction конвертирует строку из JSON в ActionType
func ParseAction(s string) ActionType {
	// Делаем нечувствительным к регистру для надежности
	if val, ok := actionStringToCmd[strings.ToUpper(s)]; ok {
		return val
	}
	return ActionUnknown
}

// String реализует интерфейс Stringer (для fmt.Printf)
func (a ActionType) String() string {
	if val, ok := actionCmdToString[a]; ok {
		return val
	}
	if val, ok := systemActionToString[a]; ok {
		return val
	}
	return "Unknown"
}

// IsItemAction - команды, меняющие инвентарь.
func (a ActionType) IsItemAction() bool {
	switch a {
	case ActionEquipItem, ActionUnequipItem, ActionUseItem, ActionDropItem:
		return true
	}
	return false
}

// ParseAdminAction: "give" -> ActionAdminGive.
func ParseAdminAction(name string) (ActionType, bool) {
	a, ok := adminActions[name]
	return a, ok
}

// AdminName - обратное к ParseAdminAction.
func (a ActionType) AdminName() (string, bool) {
	for name, v := range adminActions {
		if v == a {
			return name, true
		}
	}
	return "", false
}
