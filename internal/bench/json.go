package bench

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/san-kum/cachelayout/internal/vec"
)

// jsonFloat is a float32 that survives encoding/json when it is NaN or
// infinite. Non-finite values are written as the strings "NaN", "+Inf" and
// "-Inf"; finite values stay JSON numbers.
type jsonFloat float32

func (f jsonFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return json.Marshal(strconv.FormatFloat(v, 'g', -1, 32))
	}
	return strconv.AppendFloat(nil, v, 'g', -1, 32), nil
}

func (f *jsonFloat) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	}
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return fmt.Errorf("bench: decode float %s: %w", data, err)
	}
	*f = jsonFloat(v)
	return nil
}

type jsonVec3 struct {
	X jsonFloat
	Y jsonFloat
	Z jsonFloat
}

func (p Params) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Dt      jsonFloat `json:"dt"`
		Gravity jsonVec3  `json:"gravity"`
	}{
		Dt:      jsonFloat(p.Dt),
		Gravity: jsonVec3{jsonFloat(p.Gravity.X), jsonFloat(p.Gravity.Y), jsonFloat(p.Gravity.Z)},
	})
}

func (p *Params) UnmarshalJSON(data []byte) error {
	var aux struct {
		Dt      jsonFloat `json:"dt"`
		Gravity jsonVec3  `json:"gravity"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	p.Dt = float32(aux.Dt)
	p.Gravity = vec.New(float32(aux.Gravity.X), float32(aux.Gravity.Y), float32(aux.Gravity.Z))
	return nil
}

func (r Result) MarshalJSON() ([]byte, error) {
	type plain Result
	return json.Marshal(struct {
		plain
		Energy jsonFloat `json:"energy"`
	}{plain(r), jsonFloat(r.Energy)})
}

func (r *Result) UnmarshalJSON(data []byte) error {
	type plain Result
	aux := struct {
		*plain
		Energy jsonFloat `json:"energy"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	r.Energy = float32(aux.Energy)
	return nil
}
