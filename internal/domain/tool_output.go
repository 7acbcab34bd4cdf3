package domain

// ToolValue is one unit of tool output: rendered text, an image, an
// AI-attributed value, or nothing.
type ToolValue interface {
	isToolValue()
}

// TextValue is serialized structured output.
type TextValue string

func (TextValue) isToolValue() {}

// ImageValue is a binary payload with its mime type.
type ImageValue struct {
	MimeType string
	Data     []byte
}

func (ImageValue) isToolValue() {}

// EmptyValue is deliberate absence of output.
type EmptyValue struct{}

func (EmptyValue) isToolValue() {}

// AIValue is output attributed to a model rather than a tool primitive.
type AIValue struct {
	Value string
}

func (AIValue) isToolValue() {}

// ToolOutput is the envelope returned for every completed tool invocation.
type ToolOutput struct {
	Values []ToolValue
}

// TextOutput wraps rendered text in a ToolOutput.
func TextOutput(text string) ToolOutput {
	return ToolOutput{Values: []ToolValue{TextValue(text)}}
}

// ImageOutput wraps an image in a ToolOutput.
func ImageOutput(mimeType string, data []byte) ToolOutput {
	return ToolOutput{Values: []ToolValue{ImageValue{MimeType: mimeType, Data: data}}}
}

// AsText concatenates the textual values, one per line. Images surface as a
// mime-type note; empty values contribute nothing.
func (o ToolOutput) AsText() string {
	var out string
	for _, v := range o.Values {
		switch v := v.(type) {
		case TextValue:
			out += string(v) + "\n"
		case AIValue:
			out += v.Value + "\n"
		case ImageValue:
			out += "Image with mime type: " + v.MimeType + "\n"
		case EmptyValue:
		}
	}
	return out
}
