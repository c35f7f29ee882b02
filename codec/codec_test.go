package codec

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"google.golang.org/protobuf/types/known/wrapperspb"
)

type track struct {
	ID       string    `json:"id" msgpack:"id" cbor:"id"`
	Title    string    `json:"title" msgpack:"title" cbor:"title"`
	Plays    int       `json:"plays" msgpack:"plays" cbor:"plays"`
	Released time.Time `json:"released" msgpack:"released" cbor:"released"`
}

type other struct {
	Foo []int `json:"foo" cbor:"foo"`
}

func sample() track {
	return track{ID: "t1", Title: "Intro", Plays: 3, Released: time.Date(2015, 1, 26, 0, 0, 0, 0, time.UTC)}
}

func roundTrip[V any](t *testing.T, c Codec[V], v V) V {
	t.Helper()
	b, err := c.Encode(v)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := c.Decode(b)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return got
}

func TestStructCodecsPreserveValue(t *testing.T) {
	want := sample()
	codecs := map[string]Codec[track]{
		"json":     JSON[track]{},
		"msgpack":  Msgpack[track]{},
		"cbor":     MustCBOR[track](CBOROptions{}),
		"cbor_det": MustCBOR[track](CBOROptions{Deterministic: true}),
	}
	for name, c := range codecs {
		t.Run(name, func(t *testing.T) {
			got := roundTrip(t, c, want)
			if got.ID != want.ID || got.Title != want.Title || got.Plays != want.Plays || !got.Released.Equal(want.Released) {
				t.Fatalf("got %+v want %+v", got, want)
			}
		})
	}
}

func TestStrictDecodersRejectForeignShape(t *testing.T) {
	payload, err := JSON[other]{}.Encode(other{Foo: []int{1}})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := (JSON[track]{Strict: true}).Decode(payload); err == nil {
		t.Fatalf("strict JSON should reject unknown field")
	}

	cb, err := MustCBOR[other](CBOROptions{}).Encode(other{Foo: []int{1}})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := MustCBOR[track](CBOROptions{RejectUnknown: true}).Decode(cb); err == nil {
		t.Fatalf("strict CBOR should reject unknown field")
	}
}

func TestMalformedPayloads(t *testing.T) {
	junk := []byte("{not json")
	if _, err := (JSON[track]{}).Decode(junk); err == nil {
		t.Fatalf("JSON should fail on malformed input")
	}
	if _, err := (Msgpack[track]{}).Decode([]byte{0xc1}); err == nil {
		t.Fatalf("msgpack should fail on reserved byte 0xc1")
	}
}

func TestStrictJSONRejectsTrailingData(t *testing.T) {
	strict := JSON[track]{Strict: true}
	if _, err := strict.Decode([]byte(`{"id":"1"} {"id":"2"}`)); err == nil {
		t.Fatalf("strict JSON should reject a second value")
	}
	if _, err := strict.Decode([]byte(`{"id":"1"}}`)); err == nil {
		t.Fatalf("strict JSON should reject trailing garbage")
	}
	got, err := strict.Decode([]byte("{\"id\":\"1\"}\n "))
	if err != nil || got.ID != "1" {
		t.Fatalf("trailing whitespace must be accepted: got=%+v err=%v", got, err)
	}
}

func TestRawCodecs(t *testing.T) {
	for _, s := range []string{"X", "", "\xff", "a\xc3(b", "héllo"} {
		if got := roundTrip[string](t, String{}, s); got != s {
			t.Fatalf("String round trip got %q want %q", got, s)
		}
	}
	in := []byte{0, 1, 2}
	if got := roundTrip[[]byte](t, Bytes{}, in); !reflect.DeepEqual(got, in) {
		t.Fatalf("Bytes round trip got %v", got)
	}
}

func TestLimit(t *testing.T) {
	c := Limit[string]{Inner: String{}, MaxDecode: 4}
	if _, err := c.Decode([]byte("12345")); err == nil || !strings.Contains(err.Error(), "too large") {
		t.Fatalf("expected too large error, got %v", err)
	}
	if v, err := c.Decode([]byte("1234")); err != nil || v != "1234" {
		t.Fatalf("v=%q err=%v", v, err)
	}
	off := Limit[string]{Inner: String{}}
	if _, err := off.Decode([]byte(strings.Repeat("a", 1<<16))); err != nil {
		t.Fatalf("MaxDecode<=0 must disable the limit: %v", err)
	}
}

func TestProtobuf(t *testing.T) {
	c := NewProtobuf(func() *wrapperspb.StringValue { return &wrapperspb.StringValue{} })
	got := roundTrip[*wrapperspb.StringValue](t, c, wrapperspb.String("X"))
	if got.GetValue() != "X" {
		t.Fatalf("got %q", got.GetValue())
	}
	if _, err := (Protobuf[*wrapperspb.StringValue]{}).Decode(nil); err == nil {
		t.Fatalf("zero Protobuf codec should refuse to decode")
	}
}
