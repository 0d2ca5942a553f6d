package schedule

import (
	"sort"
	"strconv"
	"strings"
)

// ===============================
// Chaves reconhecidas
// ===============================

const (
	KeyMorningStart             = "morning_start"
	KeyMorningEnd               = "morning_end"
	KeyAfternoonStart           = "afternoon_start"
	KeyAfternoonEnd             = "afternoon_end"
	KeyOpenDays                 = "open_days"
	KeySlotBufferMinutes        = "slot_buffer_minutes"
	KeyFixedSlots               = "fixed_slots"
	KeySlotStepMinutes          = "slot_step_minutes"
	KeyOpeningDelayHours        = "opening_delay_hours"
	KeyRescheduleMinNoticeHours = "reschedule_min_notice_hours"
	KeyMaintenance              = "maintenance"
)

// Defaults aplicados quando a chave falta ou está malformada.
var Defaults = map[string]string{
	KeyMorningStart:             "09:00",
	KeyMorningEnd:               "12:00",
	KeyAfternoonStart:           "14:00",
	KeyAfternoonEnd:             "18:00",
	KeyOpenDays:                 "1,2,3,4,5",
	KeySlotBufferMinutes:        "0",
	KeyFixedSlots:               "1",
	KeySlotStepMinutes:          "15",
	KeyOpeningDelayHours:        "48",
	KeyRescheduleMinNoticeHours: "24",
	KeyMaintenance:              "0",
}

const MaxBufferMinutes = 240

// Window é uma janela diária em minutos desde a meia-noite local.
type Window struct {
	Start int
	End   int
}

// Config é uma visão tipada e imutável das configurações da agenda.
// Valores ruins nunca geram erro: caem no default.
type Config struct {
	values map[string]string
}

func NewConfig(values map[string]string) Config {
	cp := make(map[string]string, len(values))
	for k, v := range values {
		cp[k] = strings.TrimSpace(v)
	}
	return Config{values: cp}
}

// Values devolve uma cópia dos valores crus (sem defaults).
func (c Config) Values() map[string]string {
	cp := make(map[string]string, len(c.values))
	for k, v := range c.values {
		cp[k] = v
	}
	return cp
}

// Effective devolve os valores em uso: gravados por cima dos defaults.
func (c Config) Effective() map[string]string {
	out := make(map[string]string, len(Defaults)+len(c.values))
	for k, v := range Defaults {
		out[k] = v
	}
	for k, v := range c.values {
		out[k] = v
	}
	return out
}

func (c Config) Get(key, def string) string {
	if v, ok := c.values[key]; ok && v != "" {
		return v
	}
	return def
}

func (c Config) GetInt(key string, def int) int {
	n, err := strconv.Atoi(c.Get(key, ""))
	if err != nil {
		return def
	}
	return n
}

func (c Config) GetBool(key string, def bool) bool {
	v := c.Get(key, "")
	if v == "" {
		return def
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "y", "on":
		return true
	}
	return false
}

// GetCsvIntList lê uma lista "1,2,3" de dias ISO. Tokens inválidos ou fora
// de [1,7] são descartados; lista vazia cai no default.
func (c Config) GetCsvIntList(key string, def []int) []int {
	seen := map[int]bool{}
	var out []int
	for _, tok := range strings.Split(c.Get(key, ""), ",") {
		n, err := strconv.Atoi(strings.TrimSpace(tok))
		if err != nil || n < 1 || n > 7 || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	if len(out) == 0 {
		return append([]int(nil), def...)
	}
	sort.Ints(out)
	return out
}

// ===============================
// Acessores tipados
// ===============================

func (c Config) OpenDays() []int {
	return c.GetCsvIntList(KeyOpenDays, []int{1, 2, 3, 4, 5})
}

func (c Config) Morning() Window {
	return c.window(KeyMorningStart, KeyMorningEnd)
}

func (c Config) Afternoon() Window {
	return c.window(KeyAfternoonStart, KeyAfternoonEnd)
}

func (c Config) window(startKey, endKey string) Window {
	start, ok := ParseHM(c.Get(startKey, ""))
	if !ok {
		start, _ = ParseHM(Defaults[startKey])
	}
	end, ok := ParseHM(c.Get(endKey, ""))
	if !ok {
		end, _ = ParseHM(Defaults[endKey])
	}
	return Window{Start: start, End: end}
}

func (c Config) BufferMinutes() int {
	n := c.GetInt(KeySlotBufferMinutes, 0)
	if n < 0 || n > MaxBufferMinutes {
		return 0
	}
	return n
}

func (c Config) FixedSlots() bool {
	return c.GetBool(KeyFixedSlots, true)
}

func (c Config) SlotStepMinutes() int {
	n := c.GetInt(KeySlotStepMinutes, 15)
	if n <= 0 {
		return 15
	}
	return n
}

func (c Config) OpeningDelayHours() int {
	return nonNegative(c.GetInt(KeyOpeningDelayHours, 48), 48)
}

func (c Config) RescheduleMinNoticeHours() int {
	return nonNegative(c.GetInt(KeyRescheduleMinNoticeHours, 24), 24)
}

// Maintenance fecha a parte pública da API (admin e auth continuam).
func (c Config) Maintenance() bool {
	return c.GetBool(KeyMaintenance, false)
}

func nonNegative(n, def int) int {
	if n < 0 {
		return def
	}
	return n
}

// ParseHM converte "HH:MM" em minutos desde a meia-noite.
func ParseHM(s string) (int, bool) {
	if len(s) != 5 || s[2] != ':' {
		return 0, false
	}
	h, err1 := strconv.Atoi(s[:2])
	m, err2 := strconv.Atoi(s[3:])
	if err1 != nil || err2 != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}
