package probe

import (
	"context"
	"errors"
	"net"
	"testing"
)

type fakeResolver struct {
	ips    []net.IP
	ipErr  error
	cname  string
	ns     []*net.NS
	called bool
}

func (f *fakeResolver) LookupIP(ctx context.Context, network, host string) ([]net.IP, error) {
	f.called = true
	return f.ips, f.ipErr
}

func (f *fakeResolver) LookupCNAME(ctx context.Context, host string) (string, error) {
	if f.cname == "" {
		return "", errors.New("no cname")
	}
	return f.cname, nil
}

func (f *fakeResolver) LookupNS(ctx context.Context, name string) ([]*net.NS, error) {
	if len(f.ns) == 0 {
		return nil, errors.New("no ns")
	}
	return f.ns, nil
}

func TestCheckDNS_Classes(t *testing.T) {
	ctx := context.Background()

	ok := CheckDNS(ctx, &fakeResolver{ips: []net.IP{net.ParseIP("93.184.216.34")}, cname: "edge.example.net."}, "example.com")
	if ok.Class != DNSResolves || ok.CNAME != "edge.example.net" {
		t.Fatalf("want RESOLVES with cname, got %+v", ok)
	}

	nx := CheckDNS(ctx, &fakeResolver{ipErr: &net.DNSError{Err: "no such host", IsNotFound: true}}, "nope.example")
	if nx.Class != DNSNXDomain {
		t.Fatalf("want NXDOMAIN, got %+v", nx)
	}

	noA := CheckDNS(ctx, &fakeResolver{
		ipErr: &net.DNSError{Err: "no such host", IsNotFound: true},
		ns:    []*net.NS{{Host: "ns1.example."}},
	}, "bare.example")
	if noA.Class != DNSNoARecord || len(noA.Nameservers) != 1 || noA.Nameservers[0] != "ns1.example" {
		t.Fatalf("want NO_A_RECORD, got %+v", noA)
	}

	tmp := CheckDNS(ctx, &fakeResolver{ipErr: &net.DNSError{Err: "timeout", IsTemporary: true}}, "slow.example")
	if tmp.Class != DNSServfail {
		t.Fatalf("want SERVFAIL_or_TIMEOUT, got %+v", tmp)
	}
}

func TestCheckDNS_SkipsLookupForInvalidAndIP(t *testing.T) {
	r := &fakeResolver{}
	if got := CheckDNS(context.Background(), r, "https://x").Class; got != DNSInvalidName {
		t.Fatalf("want INVALID_NAME, got %s", got)
	}
	if got := CheckDNS(context.Background(), r, "127.0.0.1").Class; got != DNSNotApplicable {
		t.Fatalf("want IP_LITERAL, got %s", got)
	}
	if r.called {
		t.Fatalf("resolver should not be consulted")
	}
}
