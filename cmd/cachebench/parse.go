package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/profile"

	"github.com/san-kum/cachelayout/internal/vec"
)

// parseGravity reads "x,y,z".
func parseGravity(s string) (vec.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return vec.Vec3{}, fmt.Errorf("gravity must be x,y,z, got %q", s)
	}
	var c [3]float32
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return vec.Vec3{}, fmt.Errorf("gravity component %d: %w", i, err)
		}
		c[i] = float32(v)
	}
	return vec.New(c[0], c[1], c[2]), nil
}

func profileMode(s string) (func(*profile.Profile), error) {
	switch strings.ToLower(s) {
	case "cpu":
		return profile.CPUProfile, nil
	case "mem":
		return profile.MemProfile, nil
	case "allocs":
		return profile.MemProfileAllocs, nil
	}
	return nil, fmt.Errorf("unknown profile mode: %s (cpu, mem, allocs)", s)
}
