package common

import (
	"fmt"
	"strings"

	"courtside/models"
	"courtside/service"
)

var sideAliases = map[string]models.CoinSide{
	"heads": models.CoinHeads,
	"head":  models.CoinHeads,
	"h":     models.CoinHeads,
	"正":     models.CoinHeads,
	"正面":    models.CoinHeads,
	"tails": models.CoinTails,
	"tail":  models.CoinTails,
	"t":     models.CoinTails,
	"反":     models.CoinTails,
	"反面":    models.CoinTails,
}

var colorAliases = map[string]models.RouletteColor{
	"red":   models.RouletteRed,
	"r":     models.RouletteRed,
	"紅":     models.RouletteRed,
	"红":     models.RouletteRed,
	"紅色":    models.RouletteRed,
	"红色":    models.RouletteRed,
	"black": models.RouletteBlack,
	"b":     models.RouletteBlack,
	"黑":     models.RouletteBlack,
	"黑色":    models.RouletteBlack,
	"green": models.RouletteGreen,
	"g":     models.RouletteGreen,
	"綠":     models.RouletteGreen,
	"绿":     models.RouletteGreen,
	"綠色":    models.RouletteGreen,
	"绿色":    models.RouletteGreen,
}

// HorseNames are the display names of the three tracks, by index
var HorseNames = []string{"湖人", "塞爾提克", "公牛"}

var pickAliases = map[string]int{
	"0":       0,
	"lakers":  0,
	"湖人":      0,
	"1":       1,
	"celtics": 1,
	"塞爾提克":    1,
	"塞尔提克":    1,
	"2":       2,
	"bulls":   2,
	"公牛":      2,
}

func normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// ParseSide maps a user supplied coin side onto the core enum
func ParseSide(raw string) (models.CoinSide, error) {
	if side, ok := sideAliases[normalize(raw)]; ok {
		return side, nil
	}
	return "", fmt.Errorf("%w: unknown coin side %q", service.ErrInvalidArgument, raw)
}

// ParseColor maps a user supplied roulette color onto the core enum
func ParseColor(raw string) (models.RouletteColor, error) {
	if color, ok := colorAliases[normalize(raw)]; ok {
		return color, nil
	}
	return "", fmt.Errorf("%w: unknown roulette color %q", service.ErrInvalidArgument, raw)
}

// ParsePick maps a team name or track number onto a track index
func ParsePick(raw string) (int, error) {
	if pick, ok := pickAliases[normalize(raw)]; ok {
		return pick, nil
	}
	return 0, fmt.Errorf("%w: unknown horse %q", service.ErrInvalidArgument, raw)
}
