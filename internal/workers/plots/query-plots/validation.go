package queryplots

// InputSchema constrains the job variables. Individual parameter values are
// not typed here; unsupported values are ignored during conversion.
const InputSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"properties": {
		"queryParams": {
			"type": ["object", "null"]
		}
	}
}`
