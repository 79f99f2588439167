/*
Package ddns keeps a single Cloudflare DNS A record pointed at the caller's public IPv4 address.

Usage will always start with [ddns.New],
which returns a [Client] for one record name.
New requires the name being managed and a [Provider] implementation, usually registered with [UsingCloudflare].
A [Resolver] discovers the current address; [DefaultResolver] asks two independent web services in order.

Each call to [Client.RunDDNS] is a single, stateless pass.
Repetition belongs to whatever scheduler invokes the program.
The error it returns can be mapped to an [Outcome] with [Classify].
*/
package ddns
