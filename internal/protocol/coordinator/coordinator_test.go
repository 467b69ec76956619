package coordinator

import "testing"

func TestClientConnectEncode(t *testing.T) {
	body := ClientConnect{InviteCode: "+abc"}.Encode()
	want := append([]byte{Version}, append([]byte("+abc"), 0)...)
	if string(body) != string(want) {
		t.Fatalf("Encode() = %x, want %x", body, want)
	}
}

func TestDecodeGCDirectConnect(t *testing.T) {
	body := append([]byte{0}, 0, '1', '2', '7', '.', '0', '.', '0', '.', '1', 0, 0x0F, 0x0F)
	got, err := DecodeGCDirectConnect(body)
	if err != nil {
		t.Fatal(err)
	}
	if got.Host != "127.0.0.1" || got.Port != 0x0F0F {
		t.Fatalf("got %+v", got)
	}
}

func TestDecodeGCErrorTrailingBytesFail(t *testing.T) {
	body := []byte{1, 'x', 0, 0xFF}
	if _, err := DecodeGCError(body); err == nil {
		t.Fatal("expected error on trailing bytes")
	}
}

func TestDecodeGCStunRequest(t *testing.T) {
	body := []byte{'t', 'o', 'k', 0}
	got, err := DecodeGCStunRequest(body)
	if err != nil {
		t.Fatal(err)
	}
	if got.Token != "tok" {
		t.Fatalf("got %+v", got)
	}
}
