// Команда hash-password печатает bcrypt-хэш пароля для секции credentials конфига.
//
//	echo -n 'secret' | hash-password
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/magabrotheeeer/vpn-dashboard/internal/lib/password"
)

func main() {
	raw, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && raw == "" {
		fmt.Fprintln(os.Stderr, "hash-password: read password from stdin:", err)
		os.Exit(1)
	}
	raw = strings.TrimRight(raw, "\r\n")
	if raw == "" {
		fmt.Fprintln(os.Stderr, "hash-password: empty password")
		os.Exit(1)
	}

	hash, err := password.GetHash(raw)
	if err != nil {
		fmt.Fprintln(os.Stderr, "hash-password:", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
