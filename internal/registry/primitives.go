package registry

// DefaultPrimitives maps native spellings to binding-facing names.
// Keys may be whole constructed tags, e.g. POINTER(char).
var DefaultPrimitives = map[string]string{
	"void":                   "Void",
	"_Bool":                  "Bool",
	"bool":                   "Bool",
	"char":                   "Char",
	"signed char":            "Char",
	"unsigned char":          "UChar",
	"short":                  "Short",
	"short int":              "Short",
	"signed short":           "Short",
	"unsigned short":         "UShort",
	"unsigned short int":     "UShort",
	"short unsigned int":     "UShort",
	"int":                    "Int",
	"signed int":             "Int",
	"unsigned int":           "UInt",
	"long":                   "Long",
	"long int":               "Long",
	"unsigned long":          "ULong",
	"unsigned long int":      "ULong",
	"long unsigned int":      "ULong",
	"long long":              "LLong",
	"long long int":          "LLong",
	"unsigned long long":     "ULLong",
	"long long unsigned int": "ULLong",
	"float":                  "Float",
	"double":                 "Double",
	"long double":            "LDouble",
	"size_t":                 "SizeT",
	"ssize_t":                "SSizeT",
	"ptrdiff_t":              "PtrDiff",
	"time_t":                 "TimeT",
	"wchar_t":                "WChar",
	"va_list":                "VaList",
	"int8_t":                 "Int8",
	"int16_t":                "Int16",
	"int32_t":                "Int32",
	"int64_t":                "Int64",
	"uint8_t":                "UInt8",
	"uint16_t":               "UInt16",
	"uint32_t":               "UInt32",
	"uint64_t":               "UInt64",
	"intptr_t":               "SSizeT",
	"uintptr_t":              "SizeT",
	"u_char":                 "UChar",
	"u_int":                  "UInt",
	"u_long":                 "ULong",
	"__u16":                  "UInt16",
	"__u32":                  "UInt32",
	"__u64":                  "UInt64",
	"POINTER(char)":          "String",
	"POINTER(CONST(char))":   "String",
	"POINTER(void)":          "Pointer",
	"POINTER(CONST(void))":   "Pointer",
}
