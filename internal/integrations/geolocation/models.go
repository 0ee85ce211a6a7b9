package geolocation

import (
	"strconv"
	"strings"
)

// Position текущая позиция пользователя
type Position struct {
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	FormattedAddress string  `json:"formattedAddress,omitempty"`
}

// Address возвращает адрес для формы: отформатированный адрес или "широта, долгота"
func (p Position) Address() string {
	if addr := strings.TrimSpace(p.FormattedAddress); addr != "" {
		return addr
	}
	return strconv.FormatFloat(p.Latitude, 'f', -1, 64) + ", " + strconv.FormatFloat(p.Longitude, 'f', -1, 64)
}

func (p Position) valid() bool {
	return p.Latitude >= -90 && p.Latitude <= 90 && p.Longitude >= -180 && p.Longitude <= 180
}
