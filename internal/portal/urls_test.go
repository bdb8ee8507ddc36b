package portal

import "testing"

func TestEndpoint(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", "/portal-api"},
		{"/", "/portal-api"},
		{"auth/login", "/portal-api/auth/login"},
		{"/auth/login", "/portal-api/auth/login"},
		{"/portal-api", "/portal-api"},
		{"/portal-api/", "/portal-api"},
		{"/portal-api/my/profiles", "/portal-api/my/profiles"},
		// A path that merely starts with the base text is not the base.
		{"/portal-apirate", "/portal-api/portal-apirate"},
	}
	for _, c := range cases {
		if got := Endpoint(c.in); got != c.want {
			t.Errorf("Endpoint(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestEndpointIdempotent(t *testing.T) {
	for _, in := range []string{"", "/", "a/b", "/my/profiles", "/portal-api/x"} {
		once := Endpoint(in)
		if twice := Endpoint(once); twice != once {
			t.Errorf("Endpoint(Endpoint(%q)) = %q, want %q", in, twice, once)
		}
	}
}
