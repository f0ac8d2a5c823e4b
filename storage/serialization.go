// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/vitrine/core"
)

var (
	float32SliceSer = ord.NewSliceSer[float32](varint.Float32)
	stringSliceSer  = ord.NewSliceSer[string](ord.String)
)

// IDMUS is the MUS serializer for core.ID.
var IDMUS = idSer{}

type idSer struct{}

func (idSer) Marshal(id core.ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idSer) Unmarshal(bs []byte) (core.ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return core.ID(v), n, err
}

func (idSer) Size(id core.ID) int {
	return varint.Uint64.Size(uint64(id))
}

// timeSer encodes a time.Time as its UnixMicro value. Sub-microsecond
// precision and the monotonic clock reading are dropped.
type timeSer struct{}

func (timeSer) Marshal(t time.Time, bs []byte) int {
	return varint.Int64.Marshal(t.UnixMicro(), bs)
}

func (timeSer) Unmarshal(bs []byte) (time.Time, int, error) {
	micros, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return time.Time{}, n, err
	}
	return time.UnixMicro(micros).UTC(), n, nil
}

func (timeSer) Size(t time.Time) int {
	return varint.Int64.Size(t.UnixMicro())
}

// ProductMUS is the MUS serializer for core.Product.
var ProductMUS = productSer{}

type productSer struct{}

func (productSer) Marshal(p core.Product, bs []byte) (n int) {
	n = ord.String.Marshal(p.Key.Source, bs)
	n += ord.String.Marshal(p.Key.ProductURL, bs[n:])
	n += ord.String.Marshal(p.Id, bs[n:])
	n += ord.String.Marshal(p.Title, bs[n:])
	n += ord.String.Marshal(p.ImageURL, bs[n:])
	n += varint.Int.Marshal(int(p.Gender), bs[n:])
	n += varint.Float64.Marshal(p.Price, bs[n:])
	n += ord.String.Marshal(p.Currency, bs[n:])
	n += ord.String.Marshal(p.Brand, bs[n:])
	n += ord.String.Marshal(p.Description, bs[n:])
	n += ord.String.Marshal(p.Category, bs[n:])
	n += stringSliceSer.Marshal(p.Tags, bs[n:])
	n += ord.String.Marshal(p.Metadata, bs[n:])
	n += float32SliceSer.Marshal(p.Embedding, bs[n:])
	n += ord.Bool.Marshal(p.SecondHand, bs[n:])
	n += ord.String.Marshal(p.Country, bs[n:])
	n += timeSer{}.Marshal(p.CreatedAt, bs[n:])
	n += timeSer{}.Marshal(p.UpdatedAt, bs[n:])
	return n
}

func (productSer) Unmarshal(bs []byte) (p core.Product, n int, err error) {
	var m int
	if p.Key.Source, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if p.Key.ProductURL, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return p, n + m, err
	}
	n += m
	if p.Id, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return p, n + m, err
	}
	n += m
	if p.Title, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return p, n + m, err
	}
	n += m
	if p.ImageURL, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return p, n + m, err
	}
	n += m
	var gender int
	if gender, m, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return p, n + m, err
	}
	p.Gender = core.Gender(gender)
	n += m
	if p.Price, m, err = varint.Float64.Unmarshal(bs[n:]); err != nil {
		return p, n + m, err
	}
	n += m
	if p.Currency, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return p, n + m, err
	}
	n += m
	if p.Brand, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return p, n + m, err
	}
	n += m
	if p.Description, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return p, n + m, err
	}
	n += m
	if p.Category, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return p, n + m, err
	}
	n += m
	if p.Tags, m, err = stringSliceSer.Unmarshal(bs[n:]); err != nil {
		return p, n + m, err
	}
	n += m
	if p.Metadata, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return p, n + m, err
	}
	n += m
	if p.Embedding, m, err = float32SliceSer.Unmarshal(bs[n:]); err != nil {
		return p, n + m, err
	}
	n += m
	if p.SecondHand, m, err = ord.Bool.Unmarshal(bs[n:]); err != nil {
		return p, n + m, err
	}
	n += m
	if p.Country, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return p, n + m, err
	}
	n += m
	if p.CreatedAt, m, err = (timeSer{}).Unmarshal(bs[n:]); err != nil {
		return p, n + m, err
	}
	n += m
	if p.UpdatedAt, m, err = (timeSer{}).Unmarshal(bs[n:]); err != nil {
		return p, n + m, err
	}
	n += m
	return p, n, nil
}

func (productSer) Size(p core.Product) (size int) {
	size = ord.String.Size(p.Key.Source)
	size += ord.String.Size(p.Key.ProductURL)
	size += ord.String.Size(p.Id)
	size += ord.String.Size(p.Title)
	size += ord.String.Size(p.ImageURL)
	size += varint.Int.Size(int(p.Gender))
	size += varint.Float64.Size(p.Price)
	size += ord.String.Size(p.Currency)
	size += ord.String.Size(p.Brand)
	size += ord.String.Size(p.Description)
	size += ord.String.Size(p.Category)
	size += stringSliceSer.Size(p.Tags)
	size += ord.String.Size(p.Metadata)
	size += float32SliceSer.Size(p.Embedding)
	size += ord.Bool.Size(p.SecondHand)
	size += ord.String.Size(p.Country)
	size += (timeSer{}).Size(p.CreatedAt)
	size += (timeSer{}).Size(p.UpdatedAt)
	return size
}

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, IDMUS.Size(id))
	IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := IDMUS.Unmarshal(data)
	return id, err
}

// MarshalProduct serializes a Product to bytes.
func MarshalProduct(product *core.Product) []byte {
	buf := make([]byte, ProductMUS.Size(*product))
	ProductMUS.Marshal(*product, buf)
	return buf
}

// UnmarshalProduct deserializes a Product from bytes.
func UnmarshalProduct(data []byte) (*core.Product, error) {
	product, _, err := ProductMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &product, nil
}
