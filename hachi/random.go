/*
	Copyright 2015 Franc[e]sco (lolisamurai@tfwno.gf)
	This file is part of go-hachi.
	go-hachi is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.
	go-hachi is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.
	You should have received a copy of the GNU General Public License
	along with go-hachi. If not, see <http://www.gnu.org/licenses/>.
*/

package hachi

import (
	"math/rand"
	"time"
)

// A RandomSource supplies the bytes used by RND VX,NN.
type RandomSource interface {
	Byte() uint8
}

// SeededSource is a RandomSource backed by math/rand.
type SeededSource struct {
	r *rand.Rand
}

// NewSeededSource returns a source that yields the same sequence for the same
// seed.
func NewSeededSource(seed int64) *SeededSource {
	return &SeededSource{rand.New(rand.NewSource(seed))}
}

func (s *SeededSource) Byte() uint8 { return uint8(s.r.Uint32()) }

func defaultRandom() RandomSource {
	return NewSeededSource(time.Now().UnixNano())
}
