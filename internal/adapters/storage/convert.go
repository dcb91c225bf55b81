package storage

import (
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// WriteResult is the raw outcome of a put, update or delete
type WriteResult struct {
	Attributes Item
	RequestID  string
}

type writeResultMetadata struct {
	RequestID string `json:"requestId,omitempty"`
}

// MarshalJSON renders the result the way the DynamoDB API reports it
func (r *WriteResult) MarshalJSON() ([]byte, error) {
	out := struct {
		Metadata   writeResultMetadata    `json:"$metadata"`
		Attributes map[string]interface{} `json:"Attributes,omitempty"`
	}{
		Metadata: writeResultMetadata{RequestID: r.RequestID},
	}
	if r.Attributes != nil {
		out.Attributes = EncodeItem(r.Attributes)
	}
	return json.Marshal(out)
}

// ToPlain converts a stored item into a plain field/value mapping.
// A nil item yields an empty mapping.
func ToPlain(item Item) (map[string]interface{}, error) {
	plain := map[string]interface{}{}
	if item == nil {
		return plain, nil
	}
	if err := attributevalue.UnmarshalMap(item, &plain); err != nil {
		return nil, err
	}
	return plain, nil
}

// FromPlain converts a plain field/value mapping into a storable item
func FromPlain(fields map[string]interface{}) (Item, error) {
	av, err := attributevalue.MarshalMap(fields)
	if err != nil {
		return nil, err
	}
	return Item(av), nil
}

func marshalValue(v interface{}) (types.AttributeValue, error) {
	return attributevalue.Marshal(v)
}

// postIDOf returns the non-empty string key of an item or key
func postIDOf(attrs map[string]types.AttributeValue) (string, error) {
	s, ok := attrs[KeyAttribute].(*types.AttributeValueMemberS)
	if !ok || s.Value == "" {
		return "", ErrMissingKey
	}
	return s.Value, nil
}

// EncodeItem renders an item in DynamoDB JSON, e.g. {"title": {"S": "hello"}}.
// A nil item encodes to nil.
func EncodeItem(item Item) map[string]interface{} {
	if item == nil {
		return nil
	}
	out := make(map[string]interface{}, len(item))
	for name, av := range item {
		out[name] = encodeAttributeValue(av)
	}
	return out
}

// EncodeItems renders a slice of items in DynamoDB JSON
func EncodeItems(items []Item) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		out = append(out, EncodeItem(item))
	}
	return out
}

func encodeAttributeValue(av types.AttributeValue) interface{} {
	switch v := av.(type) {
	case *types.AttributeValueMemberS:
		return map[string]interface{}{"S": v.Value}
	case *types.AttributeValueMemberN:
		return map[string]interface{}{"N": v.Value}
	case *types.AttributeValueMemberB:
		return map[string]interface{}{"B": v.Value}
	case *types.AttributeValueMemberBOOL:
		return map[string]interface{}{"BOOL": v.Value}
	case *types.AttributeValueMemberNULL:
		return map[string]interface{}{"NULL": v.Value}
	case *types.AttributeValueMemberSS:
		return map[string]interface{}{"SS": v.Value}
	case *types.AttributeValueMemberNS:
		return map[string]interface{}{"NS": v.Value}
	case *types.AttributeValueMemberBS:
		return map[string]interface{}{"BS": v.Value}
	case *types.AttributeValueMemberL:
		list := make([]interface{}, 0, len(v.Value))
		for _, elem := range v.Value {
			list = append(list, encodeAttributeValue(elem))
		}
		return map[string]interface{}{"L": list}
	case *types.AttributeValueMemberM:
		return map[string]interface{}{"M": EncodeItem(v.Value)}
	default:
		return nil
	}
}
