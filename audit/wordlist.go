package audit

// compromisedPasswords is a reduced list of passwords that appear in
// every public breach corpus. Matching is case-insensitive.
var compromisedPasswords = []string{
	"123456", "password", "123456789", "12345678", "12345", "1234567",
	"qwerty", "abc123", "password123", "admin", "letmein", "welcome",
	"monkey", "1234567890", "dragon", "passw0rd", "master", "hello",
	"freedom", "whatever", "qazwsx", "trustno1", "jordan23", "harley",
	"robert", "matthew", "jordan", "michelle", "love", "sunshine",
}

var compromisedSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(compromisedPasswords))
	for _, p := range compromisedPasswords {
		set[p] = struct{}{}
	}
	return set
}()
