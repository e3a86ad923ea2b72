package losses

import "math"

func sin(deg float64) float64 { return math.Sin(deg * math.Pi / 180) }

func cos(deg float64) float64 { return math.Cos(deg * math.Pi / 180) }

func tan(deg float64) float64 { return math.Tan(deg * math.Pi / 180) }
