package tile

import (
	"encoding/json"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/maajidpp/linkza/pkg/errors"
)

// The content payload has no discriminator of its own on the wire; its
// shape is selected by the sibling "type" field. Both codecs below decode
// the envelope first, pick the concrete variant via ContentFor, then decode
// the payload into it.

// rawTile mirrors Tile with the content left undecoded.
type rawTile struct {
	ID      string          `json:"id" bson:"id"`
	Type    Type            `json:"type" bson:"type"`
	Content json.RawMessage `json:"content" bson:"-"`

	X int `json:"x" bson:"x"`
	Y int `json:"y" bson:"y"`
	W int `json:"w" bson:"w"`
	H int `json:"h" bson:"h"`

	MinW int `json:"minW,omitempty" bson:"minW,omitempty"`
	MaxW int `json:"maxW,omitempty" bson:"maxW,omitempty"`
	MinH int `json:"minH,omitempty" bson:"minH,omitempty"`
	MaxH int `json:"maxH,omitempty" bson:"maxH,omitempty"`

	Static bool `json:"static,omitempty" bson:"static,omitempty"`
}

func (t *Tile) fromRaw(raw rawTile) {
	t.ID = raw.ID
	t.Type = raw.Type
	t.X, t.Y, t.W, t.H = raw.X, raw.Y, raw.W, raw.H
	t.MinW, t.MaxW, t.MinH, t.MaxH = raw.MinW, raw.MaxW, raw.MinH, raw.MaxH
	t.Static = raw.Static
}

// UnmarshalJSON decodes a tile, selecting the content variant from the
// type field. Unknown types are rejected so malformed tiles never enter
// the store.
func (t *Tile) UnmarshalJSON(data []byte) error {
	var raw rawTile
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if !raw.Type.Valid() {
		return errors.New(errors.ErrCodeInvalidTile, "unknown tile type: %q", raw.Type)
	}

	t.fromRaw(raw)
	t.Content = ContentFor(raw.Type)
	if len(raw.Content) > 0 && string(raw.Content) != "null" {
		if err := json.Unmarshal(raw.Content, t.Content); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidTile, err, "decode %s content", raw.Type)
		}
	}
	return nil
}

// UnmarshalBSON decodes a tile read from the layouts collection, using the
// same variant selection as the JSON codec.
func (t *Tile) UnmarshalBSON(data []byte) error {
	var raw rawTile
	if err := bson.Unmarshal(data, &raw); err != nil {
		return err
	}
	if !raw.Type.Valid() {
		return errors.New(errors.ErrCodeInvalidTile, "unknown tile type: %q", raw.Type)
	}

	t.fromRaw(raw)
	t.Content = ContentFor(raw.Type)

	var doc bson.Raw = data
	if v, err := doc.LookupErr("content"); err == nil {
		if cdoc, ok := v.DocumentOK(); ok {
			if err := bson.Unmarshal(cdoc, t.Content); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidTile, err, "decode %s content", raw.Type)
			}
		}
	}
	return nil
}

// MarshalBSON encodes the tile with its concrete content document.
// The default struct codec handles interface fields on the way out; this
// exists only to keep marshal/unmarshal symmetric for the content shape.
func (t Tile) MarshalBSON() ([]byte, error) {
	doc := bson.D{
		{Key: "id", Value: t.ID},
		{Key: "type", Value: t.Type},
		{Key: "content", Value: t.Content},
		{Key: "x", Value: t.X},
		{Key: "y", Value: t.Y},
		{Key: "w", Value: t.W},
		{Key: "h", Value: t.H},
	}
	if t.MinW != 0 {
		doc = append(doc, bson.E{Key: "minW", Value: t.MinW})
	}
	if t.MaxW != 0 {
		doc = append(doc, bson.E{Key: "maxW", Value: t.MaxW})
	}
	if t.MinH != 0 {
		doc = append(doc, bson.E{Key: "minH", Value: t.MinH})
	}
	if t.MaxH != 0 {
		doc = append(doc, bson.E{Key: "maxH", Value: t.MaxH})
	}
	if t.Static {
		doc = append(doc, bson.E{Key: "static", Value: t.Static})
	}
	return bson.Marshal(doc)
}
