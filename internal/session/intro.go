package session

// introText is shown once before the first round.
const introText = `=== Ports & Protocols Drill ===

This program helps you memorize ports, protocols, and related info.

How it works:
1. Choose which column you want to be shown (the QUESTION).
2. Choose which column you want to recall (the ANSWER).
3. The drill will keep asking until you get every item correct.

Column meanings:
 - Protocol: The short identifier (e.g. SSH, FTP, DNS).
 - Port: The network port(s), including protocol (e.g. tcp/22, udp/67, udp/68).
 - Name: The full service name (e.g. Secure Shell, File Transfer Protocol).
 - Description: What the service does (e.g. "Encrypted console access").

Examples:
 - If QUESTION = Protocol (SSH) and ANSWER = Port, type: tcp/22
 - If QUESTION = Name (File Transfer Protocol) and ANSWER = Port, type: tcp/20, tcp/21

Type "quit" at any time to exit.

`
