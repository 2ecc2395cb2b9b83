package geo

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// codecName makes calls go out as "application/grpc+proto", the content type every
// protobuf gRPC server accepts.
const codecName = "proto"

// wireMessage is a geo message that encodes itself in the protobuf wire format of geo.proto.
type wireMessage interface {
	marshalWire() []byte
	unmarshalWire(b []byte) error
}

// wireCodec is forced per call and never registered globally, so it does not replace
// grpc's own proto codec for other clients in the process.
type wireCodec struct{}

func (wireCodec) Marshal(v any) ([]byte, error) {
	m, ok := v.(wireMessage)
	if !ok {
		return nil, fmt.Errorf("geo codec: cannot marshal %T", v)
	}
	return m.marshalWire(), nil
}

func (wireCodec) Unmarshal(data []byte, v any) error {
	m, ok := v.(wireMessage)
	if !ok {
		return fmt.Errorf("geo codec: cannot unmarshal into %T", v)
	}
	return m.unmarshalWire(data)
}

func (wireCodec) Name() string {
	return codecName
}

const (
	streetField   protowire.Number = 1
	locationField protowire.Number = 1
	xField        protowire.Number = 1
	yField        protowire.Number = 2
)

func (r *GetGeolocationRequest) marshalWire() []byte {
	var b []byte
	if r.Street != "" {
		b = protowire.AppendTag(b, streetField, protowire.BytesType)
		b = protowire.AppendString(b, r.Street)
	}
	return b
}

func (r *GetGeolocationRequest) unmarshalWire(b []byte) error {
	*r = GetGeolocationRequest{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == streetField && typ == protowire.BytesType {
			v, n := protowire.ConsumeString(b)
			r.Street = v
			return n, nil
		}
		return protowire.ConsumeFieldValue(num, typ, b), nil
	})
}

func (r *GetGeolocationReply) marshalWire() []byte {
	var b []byte
	if r.Location != nil {
		b = protowire.AppendTag(b, locationField, protowire.BytesType)
		b = protowire.AppendBytes(b, r.Location.marshalWire())
	}
	return b
}

func (r *GetGeolocationReply) unmarshalWire(b []byte) error {
	*r = GetGeolocationReply{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == locationField && typ == protowire.BytesType {
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return n, nil
			}
			location := &Location{}
			if err := location.unmarshalWire(v); err != nil {
				return 0, err
			}
			r.Location = location
			return n, nil
		}
		return protowire.ConsumeFieldValue(num, typ, b), nil
	})
}

func (l *Location) marshalWire() []byte {
	var b []byte
	if l.X != 0 {
		b = protowire.AppendTag(b, xField, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(int64(l.X)))
	}
	if l.Y != 0 {
		b = protowire.AppendTag(b, yField, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(int64(l.Y)))
	}
	return b
}

func (l *Location) unmarshalWire(b []byte) error {
	*l = Location{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if typ == protowire.VarintType && (num == xField || num == yField) {
			v, n := protowire.ConsumeVarint(b)
			if num == xField {
				l.X = int32(v)
			} else {
				l.Y = int32(v)
			}
			return n, nil
		}
		return protowire.ConsumeFieldValue(num, typ, b), nil
	})
}

// consumeFields walks the fields of one message. Unknown fields are skipped.
func consumeFields(b []byte, field func(num protowire.Number, typ protowire.Type, b []byte) (int, error)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("geo codec: %w", protowire.ParseError(n))
		}
		b = b[n:]

		n, err := field(num, typ, b)
		if err != nil {
			return err
		}
		if n < 0 {
			return fmt.Errorf("geo codec: field %d: %w", num, protowire.ParseError(n))
		}
		b = b[n:]
	}
	return nil
}
